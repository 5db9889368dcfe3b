package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"statviz/adapters/excel"
	"statviz/adapters/postgres"
	"statviz/app"
	"statviz/domain/dataset"
	"statviz/domain/stats"
	"statviz/internal/report"
	"statviz/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statviz-cli",
		Short: "statviz CLI for running analyses over CSV/XLSX files",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newColumnsCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		sheet      string
		x          string
		y          string
		group      string
		response   string
		predictors []string
		keys       []string
		testValue  float64
		approach   string
		adjust     string
		seed       int64
		confLevel  float64
		markdown   bool
	)

	cmd := &cobra.Command{
		Use:   "run [entry-point] [data-file]",
		Short: "Run one analysis and print the result",
		Long: `Run a named analysis over a CSV or XLSX file.

Entry points: between, scatter, pie, bar, corrmat, coef, hist,
grouped_between, grouped_scatter, grouped_pie.

Example: statviz-cli run between data.csv --x dose --y response --approach robust`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryPoint := args[0]
			dataFile := args[1]

			table, err := excel.NewDataReader(dataFile).WithSheet(sheet).Read()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", dataFile, err)
			}

			opts := stats.DefaultOptions()
			opts.Approach = stats.Approach(approach)
			opts.Adjust = stats.AdjustMethod(adjust)
			opts.Seed = seed
			opts.ConfLevel = confLevel
			if err := opts.Validate(); err != nil {
				return err
			}

			req := app.AnalysisRequest{
				EntryPoint: entryPoint,
				X:          x,
				Y:          y,
				Group:      group,
				Response:   response,
				TestValue:  testValue,
				Options:    &opts,
			}
			for _, k := range keys {
				req.Keys = append(req.Keys, strings.TrimSpace(k))
			}
			for _, p := range predictors {
				req.Predictors = append(req.Predictors, strings.TrimSpace(p))
			}

			return runAnalysis(cmd.Context(), table, req, markdown)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet name for XLSX input")
	cmd.Flags().StringVar(&x, "x", "", "X column")
	cmd.Flags().StringVar(&y, "y", "", "Y column")
	cmd.Flags().StringVar(&group, "group", "", "Grouping column for grouped entry points")
	cmd.Flags().StringVar(&response, "response", "", "Response column for coef")
	cmd.Flags().StringSliceVar(&predictors, "predictors", nil, "Predictor columns for coef")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Columns for corrmat (all numeric when empty)")
	cmd.Flags().Float64Var(&testValue, "test-value", 0, "Null value for hist")
	cmd.Flags().StringVar(&approach, "approach", "parametric", "parametric, nonparametric or robust")
	cmd.Flags().StringVar(&adjust, "adjust", "holm", "p adjustment: holm, BH, bonferroni, none")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for bootstrap intervals")
	cmd.Flags().Float64Var(&confLevel, "conf-level", 0.95, "Confidence level")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print a markdown report instead of JSON")

	return cmd
}

func runAnalysis(ctx context.Context, table *dataset.Table, req app.AnalysisRequest, markdown bool) error {
	service := app.NewAnalysisService(postgres.NewMemoryRepository())
	outcome, err := service.Run(ctx, table, req)
	if err != nil {
		return err
	}

	if markdown {
		renderer := report.NewRenderer("Analysis Report")
		if outcome.Grouped != nil {
			fmt.Print(renderer.GroupedMarkdown(table.Name, req.EntryPoint, outcome.Grouped))
		} else {
			fmt.Print(renderer.Markdown(table.Name, req.EntryPoint, outcome.Result))
		}
		return nil
	}

	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func newColumnsCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns [data-file]",
		Short: "List columns and inferred statistical types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := excel.NewDataReader(args[0]).WithSheet(sheet).Read()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			fmt.Printf("%s: %d rows\n", table.Name, table.Rows())
			for _, key := range table.Keys() {
				col, err := table.Column(key)
				if err != nil {
					continue
				}
				fmt.Printf("  %-30s %s\n", key, col.Type)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet name for XLSX input")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		rows int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a synthetic CSV dataset with known structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultConfig()
			cfg.RowCount = rows
			cfg.Seed = seed

			table, err := testkit.NewDataGenerator(cfg).Generate()
			if err != nil {
				return err
			}

			keys := table.Keys()
			header := make([]string, len(keys))
			for i, k := range keys {
				header[i] = string(k)
			}
			fmt.Println(strings.Join(header, ","))

			columns := make([]dataset.Column, len(keys))
			for i, k := range keys {
				col, err := table.Column(k)
				if err != nil {
					return err
				}
				columns[i] = col
			}
			for r := 0; r < table.Rows(); r++ {
				row := make([]string, len(columns))
				for i := range columns {
					row[i] = columns[i].Raw[r]
				}
				fmt.Println(strings.Join(row, ","))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 120, "Number of rows to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	return cmd
}
