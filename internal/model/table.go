package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 可识别的列名（精确匹配）
const (
	ColSales     = "Sales"
	ColProfit    = "Profit"
	ColUnitsSold = "Units Sold"
	ColYear      = "Year"
	ColSegment   = "Segment"
	ColProduct   = "Product"
	ColCountry   = "Country"
)

// RecognizedColumns 看板可识别的全部列
var RecognizedColumns = []string{ColSales, ColProfit, ColUnitsSold, ColYear, ColSegment, ColProduct, ColCountry}

// Cell 单元格：原始文本 + 数值（仅 IsNum 为 true 时有效）
type Cell struct {
	Raw   string
	Num   float64
	IsNum bool
}

// NewCell 解析原始文本
func NewCell(raw string) Cell {
	raw = strings.TrimSpace(raw)
	c := Cell{Raw: raw}
	if raw == "" {
		return c
	}
	// 千分位
	s := strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return c
	}
	c.Num = f
	c.IsNum = true
	return c
}

// NumberCell 创建数值单元格
func NumberCell(v float64) Cell {
	return Cell{Raw: strconv.FormatFloat(v, 'f', -1, 64), Num: v, IsNum: true}
}

// Key 分组标签
// 整数值去掉小数部分，保证 2020 与 "2020.0" 归入同一组
func (c Cell) Key() string {
	if c.IsNum && c.Num == math.Trunc(c.Num) && math.Abs(c.Num) < 1e15 {
		return strconv.FormatInt(int64(c.Num), 10)
	}
	return c.Raw
}

// Row 与 Table.Columns 对齐的一行
type Row []Cell

// Table 单次上传得到的内存数据表
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewTable 由表头和原始记录创建数据表
// 字段不足的行补空单元格，多余字段丢弃
func NewTable(columns []string, records [][]string) *Table {
	t := &Table{Columns: columns}
	t.buildIndex()
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(columns))
		for i := range columns {
			if i < len(rec) {
				row[i] = NewCell(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FromRecords 由 列名→值 映射创建数据表
// 支持 string / float64 / float32 / int / int64 / nil
func FromRecords(columns []string, records []map[string]any) *Table {
	t := &Table{Columns: columns}
	t.buildIndex()
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			v, ok := rec[col]
			if !ok || v == nil {
				continue
			}
			switch x := v.(type) {
			case float64:
				row[i] = NumberCell(x)
			case float32:
				row[i] = NumberCell(float64(x))
			case int:
				row[i] = NumberCell(float64(x))
			case int64:
				row[i] = NumberCell(float64(x))
			case string:
				row[i] = NewCell(x)
			default:
				row[i] = NewCell(fmt.Sprint(x))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn 列是否存在
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	if t.index == nil {
		t.buildIndex()
	}
	_, ok := t.index[name]
	return ok
}

// ColumnIndex 列下标，不存在返回 -1
func (t *Table) ColumnIndex(name string) int {
	if !t.HasColumn(name) {
		return -1
	}
	return t.index[name]
}

// Cell 获取第 i 行指定列的单元格
func (t *Table) Cell(i int, col string) (Cell, bool) {
	idx := t.ColumnIndex(col)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return Cell{}, false
	}
	return t.Rows[i][idx], true
}

// Number 获取数值，缺失或非数值返回 false
func (t *Table) Number(i int, col string) (float64, bool) {
	c, ok := t.Cell(i, col)
	if !ok || !c.IsNum {
		return 0, false
	}
	return c.Num, true
}

// Key 获取第 i 行的分组标签
func (t *Table) Key(i int, col string) string {
	c, ok := t.Cell(i, col)
	if !ok {
		return ""
	}
	return c.Key()
}

// Subset 按下标选取行（共享行数据）
func (t *Table) Subset(indices []int) *Table {
	sub := &Table{Columns: t.Columns, index: t.index}
	sub.Rows = make([]Row, 0, len(indices))
	for _, i := range indices {
		sub.Rows = append(sub.Rows, t.Rows[i])
	}
	return sub
}

// Head 前 n 行原始文本（用于预览）
func (t *Table) Head(n int) [][]string {
	if n > t.Len() {
		n = t.Len()
	}
	out := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		vals := make([]string, len(row))
		for i, c := range row {
			vals[i] = c.Raw
		}
		out = append(out, vals)
	}
	return out
}

// PresentColumns 返回 names 中实际存在的列
func (t *Table) PresentColumns(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}
