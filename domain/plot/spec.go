package plot

import (
	"time"
)

// Type names the plot families the front-end renderer understands.
type Type string

const (
	ViolinBox       Type = "violin_box"
	Pie             Type = "pie"
	Bar             Type = "bar"
	Scatter         Type = "scatter"
	CorrelationHeat Type = "correlation_heatmap"
	CoefficientDot  Type = "coefficient_dot"
	Histogram       Type = "histogram"
	Grid            Type = "grid"  // combined grouped output
	Empty           Type = "empty" // degraded panel, annotation only
)

// Spec is the declarative, JSON-serializable plot handed to the renderer.
// The statistical annotation lives in Subtitle and Caption.
type Spec struct {
	Type      Type      `json:"plot_type"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Series    []Series  `json:"series"`
	Config    Config    `json:"config"`
	Panels    []Spec    `json:"panels,omitempty"` // Grid only
	CreatedAt time.Time `json:"created_at"`
}

// Series is a single data series in a plot.
type Series struct {
	Name  string                 `json:"name"`
	Kind  string                 `json:"kind"` // "violin", "box", "points", "line", "slices", "heatmap", "intervals", "bins"
	Data  []DataPoint            `json:"data"`
	Style map[string]interface{} `json:"style,omitempty"`
}

// DataPoint is one point, slice, cell or interval row.
type DataPoint struct {
	X     interface{} `json:"x"`
	Y     interface{} `json:"y"`
	Z     interface{} `json:"z,omitempty"`     // heatmap cells
	Low   float64     `json:"low,omitempty"`   // interval rows
	High  float64     `json:"high,omitempty"`  // interval rows
	Label string      `json:"label,omitempty"` // slice/group labels
}

// Config carries axis and legend settings.
type Config struct {
	XAxisLabel string   `json:"x_axis_label,omitempty"`
	YAxisLabel string   `json:"y_axis_label,omitempty"`
	XScale     string   `json:"x_scale,omitempty"` // "linear", "log"
	YScale     string   `json:"y_scale,omitempty"`
	Categories []string `json:"categories,omitempty"`
	ShowLegend bool     `json:"show_legend"`
}

// New creates an empty spec of the given type with the creation time set.
func New(t Type, title string) *Spec {
	return &Spec{
		Type:      t,
		Title:     title,
		Series:    []Series{},
		CreatedAt: time.Now(),
	}
}

// AddSeries appends a series to the spec.
func (s *Spec) AddSeries(series Series) {
	s.Series = append(s.Series, series)
}
