// Package report renders an analysis result into a markdown report and,
// via gomarkdown, into standalone HTML for the report app.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statviz/app"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// Renderer builds reports for stored analyses.
type Renderer struct {
	title string
}

// NewRenderer creates a report renderer with the given report title.
func NewRenderer(title string) *Renderer {
	return &Renderer{title: title}
}

// Markdown renders one analysis result as a markdown document.
func (r *Renderer) Markdown(datasetName, entryPoint string, result *app.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.title)
	fmt.Fprintf(&b, "**Dataset:** %s  \n**Analysis:** %s\n\n", datasetName, entryPoint)

	if result.Plot != nil {
		r.writePlotSection(&b, result.Plot)
	}
	if result.Result != nil {
		r.writeTestSection(&b, result.Result)
	}
	if len(result.Pairwise) > 0 {
		r.writePairwiseSection(&b, result.Pairwise)
	}
	if len(result.Matrix) > 0 {
		r.writeMatrixSection(&b, result.Matrix)
	}
	if len(result.Coefficients) > 0 {
		r.writeCoefficientSection(&b, result.Coefficients)
	}

	return b.String()
}

// GroupedMarkdown renders a grouped analysis, one section per level.
func (r *Renderer) GroupedMarkdown(datasetName, entryPoint string, grouped *app.GroupedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.title)
	fmt.Fprintf(&b, "**Dataset:** %s  \n**Analysis:** %s (grouped, %d levels)\n\n",
		datasetName, entryPoint, len(grouped.Levels))

	for _, level := range grouped.Levels {
		res, ok := grouped.ByLevel[level]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", level)
		if res.Plot != nil {
			r.writePlotSection(&b, res.Plot)
		}
		if res.Result != nil {
			r.writeTestSection(&b, res.Result)
		}
	}

	return b.String()
}

// HTML converts a markdown report into a full HTML page.
func (r *Renderer) HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))

	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: r.title,
		CSS:   "/static/report.css",
	}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

func (r *Renderer) writePlotSection(b *strings.Builder, spec *plot.Spec) {
	if spec.Subtitle != "" {
		fmt.Fprintf(b, "> %s\n\n", spec.Subtitle)
	}
	if spec.Caption != "" {
		fmt.Fprintf(b, "_%s_\n\n", spec.Caption)
	}
}

func (r *Renderer) writeTestSection(b *strings.Builder, res *stats.TestResult) {
	b.WriteString("### Test\n\n")
	if res.Test == stats.TestNone {
		fmt.Fprintf(b, "Annotation skipped, %s.\n\n", expression.FormatCount(res.N))
		return
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(b, "| Test | %s |\n", res.Test)
	fmt.Fprintf(b, "| Statistic | %s = %.3f |\n", res.StatLabel, res.Statistic)
	fmt.Fprintf(b, "| p-value | %s |\n", expression.FormatP(res.PValue))
	if res.Effect.Name != "" {
		fmt.Fprintf(b, "| Effect size | %s = %.3f, CI%.0f%% [%.3f, %.3f] |\n",
			res.Effect.Name, res.Effect.Estimate,
			res.Effect.CI.Level*100, res.Effect.CI.Lower, res.Effect.CI.Upper)
	}
	fmt.Fprintf(b, "| Sample size | %d |\n", res.N)
	b.WriteString("\n")
}

func (r *Renderer) writePairwiseSection(b *strings.Builder, comparisons []stats.PairwiseComparison) {
	b.WriteString("### Pairwise comparisons\n\n")
	b.WriteString("| Level 1 | Level 2 | Statistic | p | p (adjusted) |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range comparisons {
		fmt.Fprintf(b, "| %s | %s | %.3f | %s | %s |\n",
			c.Level1, c.Level2, c.Statistic,
			expression.FormatP(c.PValue), expression.FormatP(c.PAdjusted))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeMatrixSection(b *strings.Builder, cells []stats.CorrelationCell) {
	b.WriteString("### Correlation matrix\n\n")
	b.WriteString("| X | Y | r | p (adjusted) | n |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range cells {
		fmt.Fprintf(b, "| %s | %s | %.3f | %s | %d |\n",
			c.VariableX, c.VariableY, c.Estimate,
			expression.FormatP(c.PAdjusted), c.N)
	}
	b.WriteString("\n")
}

func (r *Renderer) writeCoefficientSection(b *strings.Builder, coefs []stats.Coefficient) {
	b.WriteString("### Coefficients\n\n")
	b.WriteString("| Term | Estimate | Std. err | t | p | CI |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range coefs {
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.3f | %s | [%.4f, %.4f] |\n",
			c.Term, c.Estimate, c.StdErr, c.TValue,
			expression.FormatP(c.PValue), c.CI.Lower, c.CI.Upper)
	}
	b.WriteString("\n")
}
