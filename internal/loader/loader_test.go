package loader

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "\xEF\xBB\xBFYear,Segment, Sales ,Profit\n2020,Government,\"1,000\",20\n\n2021,Midmarket,150\n"

	tbl, err := Load("finance.CSV", strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(tbl.Columns, "|"); got != "Year|Segment|Sales|Profit" {
		t.Fatalf("columns = %s", got)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2 (blank line skipped)", tbl.Len())
	}
	if v, ok := tbl.Number(0, "Sales"); !ok || v != 1000 {
		t.Fatalf("Sales[0] = %v %v", v, ok)
	}
	if _, ok := tbl.Number(1, "Profit"); ok {
		t.Fatalf("Profit[1] should be missing")
	}
}

func TestParseCSVErrors(t *testing.T) {
	if _, err := Load("empty.csv", strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("empty csv err = %v", err)
	}
	if _, err := Load("bad.csv", strings.NewReader("a,\"b\n1,2")); err == nil {
		t.Fatalf("expected parse error for unterminated quote")
	}
	if _, err := Load("data.json", strings.NewReader("{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("json err = %v", err)
	}
}

func TestNormalizeHeaders(t *testing.T) {
	got := NormalizeHeaders([]string{" Sales", "", "Sales", "Sales"})
	want := []string{"Sales", "Column_2", "Sales_2", "Sales_3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("headers = %v, want %v", got, want)
		}
	}
}

func TestNormalizeHeadersGeneratedCollisions(t *testing.T) {
	cases := []struct {
		raw  []string
		want []string
	}{
		{[]string{"Sales", "Sales", "Sales_2"}, []string{"Sales", "Sales_2", "Sales_2_2"}},
		{[]string{"Column_2", ""}, []string{"Column_2", "Column_2_2"}},
		{[]string{"A", "A", "A", "A_3"}, []string{"A", "A_2", "A_3", "A_3_2"}},
	}
	for _, tc := range cases {
		got := NormalizeHeaders(tc.raw)
		seen := make(map[string]bool)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("NormalizeHeaders(%v) = %v, want %v", tc.raw, got, tc.want)
			}
			if seen[got[i]] {
				t.Fatalf("duplicate header %q in %v", got[i], got)
			}
			seen[got[i]] = true
		}
	}

	tbl, err := ParseCSV(strings.NewReader("Sales,Sales,Sales_2\n1,2,3\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if v, ok := tbl.Number(0, "Sales_2_2"); !ok || v != 3 {
		t.Fatalf("third column = %v, %v", v, ok)
	}
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Year", "Product", "Sales"},
		{2020, "Paseo", 1234.5},
		{2021, "Velo", 99},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	style, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	_ = f.SetCellStyle(sheet, "C2", "C3", style)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	tbl, err := Load("upload.xlsx", &buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	if v, ok := tbl.Number(0, "Sales"); !ok || v != 1234.5 {
		t.Fatalf("Sales[0] = %v %v", v, ok)
	}
	if tbl.Key(1, "Year") != "2021" {
		t.Fatalf("Year[1] = %q", tbl.Key(1, "Year"))
	}
}

func TestParseExcelInvalid(t *testing.T) {
	if _, err := Load("broken.xlsx", strings.NewReader("not a zip")); err == nil {
		t.Fatalf("expected error for invalid workbook")
	}
}
