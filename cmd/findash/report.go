package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/analytics"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/exporter"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/loader"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/util"
)

type reportOptions struct {
	topN         int
	filterColumn string
	filterValue  string
	minColumn    string
	minValue     string
	exportPath   string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Print the dashboard for a CSV / Excel file",
		Long: `Compute the same KPIs, yearly trend, segment summary and rankings as
the web dashboard and print them as tables.

Examples:
  findash report sales.csv
  findash report sales.xlsx --top 5 --filter-column Country --filter-value Canada
  findash report sales.csv --min-column Sales --min-value 1000 --export out.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := root.loadConfig()
			if !cmd.Flags().Changed("top") {
				opts.topN = cfg.Dashboard.TopN
			}
			return runReport(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.topN, "top", analytics.DefaultTopN, "排行榜条数")
	cmd.Flags().StringVar(&opts.filterColumn, "filter-column", "", "分类过滤列")
	cmd.Flags().StringVar(&opts.filterValue, "filter-value", "", "分类过滤值 (All 表示不过滤)")
	cmd.Flags().StringVar(&opts.minColumn, "min-column", "", "数值下限过滤列")
	cmd.Flags().StringVar(&opts.minValue, "min-value", "", "数值下限")
	cmd.Flags().StringVarP(&opts.exportPath, "export", "o", "", "同时导出 Excel 报表到该路径")
	return cmd
}

func runReport(w io.Writer, path string, opts *reportOptions) error {
	minValue, err := util.ParseOptionalFloat(opts.minValue)
	if err != nil {
		return fmt.Errorf("invalid --min-value %q: %w", opts.minValue, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := loader.Load(filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	report := analytics.BuildReport(table, analytics.Options{
		TopN: opts.topN,
		Filter: analytics.Filter{
			Column:    opts.filterColumn,
			Value:     opts.filterValue,
			MinColumn: opts.minColumn,
			Min:       minValue,
		},
	})
	printReport(w, report)

	if opts.exportPath == "" {
		return nil
	}
	xlsx, err := exporter.NewExporter().Export(report)
	if err != nil {
		return err
	}
	defer xlsx.Close()
	if err := xlsx.SaveAs(opts.exportPath); err != nil {
		return fmt.Errorf("save %s: %w", opts.exportPath, err)
	}
	fmt.Fprintf(w, "\nExported to %s\n", opts.exportPath)
	return nil
}

func printReport(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "Rows: %s (after filter: %s)\n", util.FormatCount(r.RowCount), util.FormatCount(r.FilteredRows))

	if !r.KPIs.Empty() {
		section(w, "Key Metrics")
		t := newTable(w, "Metric", "Value")
		if r.KPIs.TotalSales != nil {
			t.Append([]string{"Total Sales", util.FormatNumber(*r.KPIs.TotalSales, 2)})
		}
		if r.KPIs.TotalProfit != nil {
			t.Append([]string{"Total Profit", util.FormatNumber(*r.KPIs.TotalProfit, 2)})
		}
		if r.KPIs.TotalUnits != nil {
			t.Append([]string{"Total Units Sold", util.FormatNumber(*r.KPIs.TotalUnits, 0)})
		}
		if r.KPIs.GrossMargin != nil {
			t.Append([]string{"Gross Margin", r.KPIs.GrossMargin.String()})
		}
		t.Render()
	}

	if len(r.Trend) > 0 {
		section(w, "Yearly Trend")
		t := newTable(w, "Year", "Sales", "Profit", "Units Sold", "Sales YoY", "Profit YoY")
		for _, row := range r.Trend {
			t.Append([]string{
				row.Year,
				util.FormatOptional(row.Sales, 2),
				util.FormatOptional(row.Profit, 2),
				util.FormatOptional(row.Units, 0),
				pctText(row.SalesYoY),
				pctText(row.ProfitYoY),
			})
		}
		t.Render()
	}

	if len(r.Segments) > 0 {
		section(w, "Segments")
		t := newTable(w, "Segment", "Sales", "Profit", "Units Sold", "Gross Margin")
		for _, row := range r.Segments {
			t.Append([]string{
				row.Segment,
				util.FormatOptional(row.Sales, 2),
				util.FormatOptional(row.Profit, 2),
				util.FormatOptional(row.Units, 0),
				pctText(row.GrossMargin),
			})
		}
		t.Render()
	}

	for _, rk := range []*model.Ranking{r.TopProducts, r.TopCountries} {
		if rk == nil {
			continue
		}
		section(w, fmt.Sprintf("Top %s by %s", rk.GroupColumn, rk.MetricColumn))
		t := newTable(w, "#", rk.GroupColumn, rk.MetricColumn)
		for i, row := range rk.Rows {
			t.Append([]string{fmt.Sprint(i + 1), row.Label, util.FormatNumber(row.Value, 2)})
		}
		t.Render()
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

func pctText(p *model.Pct) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
