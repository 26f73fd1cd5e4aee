package explorer

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/analytics"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/chart"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// 合成数据列名
const (
	ColCategory = "Category"
	ColValue1   = "Value1"
	ColValue2   = "Value2"
)

// 滑块参数
const (
	SliderMin     = 10
	SliderMax     = 100
	SliderStep    = 5
	SliderDefault = 20

	DefaultSeed = 42
	DefaultRows = 100

	// 表格最多展示的行数
	DisplayRows = 10
)

var ErrUnknownCategory = errors.New("unknown category")

var categoryChoices = []string{"A", "B", "C"}

// Explorer 合成数据的筛选与散点图演示
type Explorer struct {
	table      *model.Table
	categories []string
}

// Result 一次筛选的结果
type Result struct {
	Title     string                `json:"title"`
	Category  string                `json:"category"`
	MinValue1 float64               `json:"minValue1"`
	Count     int                   `json:"count"`
	Columns   []string              `json:"columns"`
	Rows      [][]string            `json:"rows"`
	Series    []chart.ScatterSeries `json:"-"`
}

// Generate 生成合成数据：Category ∈ {A,B,C}，Value1 ∈ [10,100)，Value2 ∈ [50,200)
func Generate(seed int64, n int) *model.Table {
	r := rand.New(rand.NewSource(seed))
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{
			ColCategory: categoryChoices[r.Intn(len(categoryChoices))],
			ColValue1:   10 + r.Intn(90),
			ColValue2:   50 + r.Intn(150),
		}
	}
	return model.FromRecords([]string{ColCategory, ColValue1, ColValue2}, records)
}

// New 创建演示器
func New(seed int64, n int) *Explorer {
	if n <= 0 {
		n = DefaultRows
	}
	return NewWithTable(Generate(seed, n))
}

// NewWithTable 使用已有数据表创建演示器
func NewWithTable(t *model.Table) *Explorer {
	seen := make(map[string]bool)
	var cats []string
	for i := 0; i < t.Len(); i++ {
		c := t.Key(i, ColCategory)
		if c != "" && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)
	return &Explorer{table: t, categories: cats}
}

// Categories 下拉框选项，首项为 All
func (e *Explorer) Categories() []string {
	return append([]string{analytics.AllCategories}, e.categories...)
}

// Table 底层数据
func (e *Explorer) Table() *model.Table {
	return e.table
}

// Run 按分类与 Value1 下限筛选
func (e *Explorer) Run(category string, minValue1 float64) (*Result, error) {
	if category == "" {
		category = analytics.AllCategories
	}
	if category != analytics.AllCategories && !e.hasCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	filtered := analytics.ApplyFilter(e.table, analytics.Filter{
		Column:    ColCategory,
		Value:     category,
		MinColumn: ColValue1,
		Min:       &minValue1,
	})

	res := &Result{
		Title:     fmt.Sprintf("Scatter Plot (Category=%s, Min Value1=%g)", category, minValue1),
		Category:  category,
		MinValue1: minValue1,
		Count:     filtered.Len(),
		Columns:   filtered.Columns,
		Rows:      filtered.Head(DisplayRows),
	}

	byCat := make(map[string]int)
	for i := 0; i < filtered.Len(); i++ {
		c := filtered.Key(i, ColCategory)
		x, okX := filtered.Number(i, ColValue1)
		y, okY := filtered.Number(i, ColValue2)
		if !okX || !okY {
			continue
		}
		idx, ok := byCat[c]
		if !ok {
			idx = len(res.Series)
			byCat[c] = idx
			res.Series = append(res.Series, chart.ScatterSeries{Name: c})
		}
		res.Series[idx].Points = append(res.Series[idx].Points, chart.Point{X: x, Y: y})
	}
	sort.Slice(res.Series, func(i, j int) bool { return res.Series[i].Name < res.Series[j].Name })
	return res, nil
}

// Plot 渲染散点图
func (r *Result) Plot() ([]byte, error) {
	return chart.Scatter(chart.ScatterOptions{
		Title:  r.Title,
		XLabel: ColValue1,
		YLabel: ColValue2,
	}, r.Series)
}

func (e *Explorer) hasCategory(c string) bool {
	for _, v := range e.categories {
		if v == c {
			return true
		}
	}
	return false
}
