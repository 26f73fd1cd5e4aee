package exporter

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/analytics"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

var excelizeRaw = excelize.Options{RawCellValue: true}

func TestExportReport(t *testing.T) {
	tbl := model.FromRecords(
		[]string{"Year", "Segment", "Product", "Sales", "Profit"},
		[]map[string]any{
			{"Year": 2020, "Segment": "Government", "Product": "Paseo", "Sales": 100, "Profit": 20},
			{"Year": 2021, "Segment": "Enterprise", "Product": "Velo", "Sales": 150, "Profit": 45},
		},
	)
	report := analytics.BuildReport(tbl, analytics.Options{})

	f, err := NewExporter().Export(report)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetKPIs, SheetTrend, SheetSegments, SheetTopProducts}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	kpis, err := f.GetRows(SheetKPIs, excelizeRaw)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if kpis[1][0] != "Total Sales" || kpis[1][1] != "250" {
		t.Fatalf("kpi row = %v", kpis[1])
	}
	if kpis[3][0] != "Gross Margin %" || kpis[3][1] != "26.00%" {
		t.Fatalf("margin row = %v", kpis[3])
	}

	trend, _ := f.GetRows(SheetTrend, excelizeRaw)
	if len(trend) != 3 {
		t.Fatalf("trend rows = %d", len(trend))
	}
	if trend[0][3] != "Sales_YoY_%" || trend[1][3] != "N/A" || trend[2][3] != "50.00%" {
		t.Fatalf("trend = %v", trend)
	}

	products, _ := f.GetRows(SheetTopProducts, excelizeRaw)
	if products[1][0] != "Velo" {
		t.Fatalf("top product = %v", products[1])
	}
}

func TestExportNilReport(t *testing.T) {
	if _, err := NewExporter().Export(nil); err == nil {
		t.Fatalf("expected error")
	}
}
