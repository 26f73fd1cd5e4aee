package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// 导出工作表名称
const (
	SheetKPIs         = "KPIs"
	SheetTrend        = "Yearly Trend"
	SheetSegments     = "Segments"
	SheetTopProducts  = "Top Products"
	SheetTopCountries = "Top Countries"
)

// Exporter 看板报表导出器
type Exporter struct {
	headerStyle int
	numberStyle int
}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 导出报表到 Excel，只写入报表中存在的部分
func (e *Exporter) Export(report *model.Report) (*excelize.File, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	f := excelize.NewFile()
	if err := e.initStyles(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	// 默认 Sheet1 改名为 KPIs
	if err := f.SetSheetName(f.GetSheetName(0), SheetKPIs); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	steps := []func(*excelize.File, *model.Report) error{
		e.writeKPIs,
		e.writeTrend,
		e.writeSegments,
		e.writeRankings,
	}
	for _, step := range steps {
		if err := step(f, report); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) initStyles(f *excelize.File) error {
	var err error
	e.headerStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	e.numberStyle, err = f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}
	return nil
}

func (e *Exporter) writeKPIs(f *excelize.File, r *model.Report) error {
	rows := [][]interface{}{{"Metric", "Value"}}
	k := r.KPIs
	if k.TotalSales != nil {
		rows = append(rows, []interface{}{"Total Sales", *k.TotalSales})
	}
	if k.TotalProfit != nil {
		rows = append(rows, []interface{}{"Total Profit", *k.TotalProfit})
	}
	if k.TotalUnits != nil {
		rows = append(rows, []interface{}{"Total Units", *k.TotalUnits})
	}
	if k.GrossMargin != nil {
		rows = append(rows, []interface{}{"Gross Margin %", pctCell(*k.GrossMargin)})
	}
	rows = append(rows,
		[]interface{}{"Rows", r.RowCount},
		[]interface{}{"Rows After Filter", r.FilteredRows},
	)
	return e.writeSheet(f, SheetKPIs, rows, 22)
}

func (e *Exporter) writeTrend(f *excelize.File, r *model.Report) error {
	if len(r.Trend) == 0 {
		return nil
	}
	first := r.Trend[0]
	header := []interface{}{model.ColYear}
	if first.Sales != nil {
		header = append(header, model.ColSales)
	}
	if first.Profit != nil {
		header = append(header, model.ColProfit)
	}
	if first.Units != nil {
		header = append(header, model.ColUnitsSold)
	}
	if first.SalesYoY != nil {
		header = append(header, "Sales_YoY_%")
	}
	if first.ProfitYoY != nil {
		header = append(header, "Profit_YoY_%")
	}

	rows := [][]interface{}{header}
	for _, t := range r.Trend {
		row := []interface{}{t.Year}
		for _, v := range []*float64{t.Sales, t.Profit, t.Units} {
			if v != nil {
				row = append(row, *v)
			}
		}
		for _, p := range []*model.Pct{t.SalesYoY, t.ProfitYoY} {
			if p != nil {
				row = append(row, pctCell(*p))
			}
		}
		rows = append(rows, row)
	}
	return e.newSheet(f, SheetTrend, rows, 16)
}

func (e *Exporter) writeSegments(f *excelize.File, r *model.Report) error {
	if len(r.Segments) == 0 {
		return nil
	}
	first := r.Segments[0]
	header := []interface{}{model.ColSegment}
	if first.Sales != nil {
		header = append(header, model.ColSales)
	}
	if first.Profit != nil {
		header = append(header, model.ColProfit)
	}
	if first.Units != nil {
		header = append(header, model.ColUnitsSold)
	}
	if first.GrossMargin != nil {
		header = append(header, "Gross_Margin_%")
	}

	rows := [][]interface{}{header}
	for _, s := range r.Segments {
		row := []interface{}{s.Segment}
		for _, v := range []*float64{s.Sales, s.Profit, s.Units} {
			if v != nil {
				row = append(row, *v)
			}
		}
		if s.GrossMargin != nil {
			row = append(row, pctCell(*s.GrossMargin))
		}
		rows = append(rows, row)
	}
	return e.newSheet(f, SheetSegments, rows, 20)
}

func (e *Exporter) writeRankings(f *excelize.File, r *model.Report) error {
	for _, item := range []struct {
		sheet   string
		ranking *model.Ranking
	}{
		{SheetTopProducts, r.TopProducts},
		{SheetTopCountries, r.TopCountries},
	} {
		if item.ranking == nil {
			continue
		}
		rows := [][]interface{}{{item.ranking.GroupColumn, item.ranking.MetricColumn}}
		for _, row := range item.ranking.Rows {
			rows = append(rows, []interface{}{row.Label, row.Value})
		}
		if err := e.newSheet(f, item.sheet, rows, 24); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) newSheet(f *excelize.File, sheet string, rows [][]interface{}, width float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	return e.writeSheet(f, sheet, rows, width)
}

func (e *Exporter) writeSheet(f *excelize.File, sheet string, rows [][]interface{}, width float64) error {
	maxCols := 0
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if maxCols == 0 {
		return nil
	}

	lastCol, _ := excelize.ColumnNumberToName(maxCols)
	if err := f.SetRowStyle(sheet, 1, 1, e.headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	if len(rows) > 1 && maxCols > 1 {
		bottomRight, _ := excelize.CoordinatesToCellName(maxCols, len(rows))
		if err := f.SetCellStyle(sheet, "B2", bottomRight, e.numberStyle); err != nil {
			return fmt.Errorf("style %s values: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", lastCol, width)
}

// pctCell 百分比单元格：有效时保留两位小数，否则写 N/A
func pctCell(p model.Pct) interface{} {
	if !p.Valid {
		return model.NotApplicable
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}
