package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// NotApplicable 无效百分比的显示值
const NotApplicable = "N/A"

// Pct 派生百分比
// 除数为 0 或没有上期数据时 Valid 为 false
type Pct struct {
	Value float64
	Valid bool
}

// PctOf num/den*100，除数为 0 或结果非有限值时无效
func PctOf(num, den float64) Pct {
	if den == 0 {
		return Pct{}
	}
	v := num / den * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Pct{}
	}
	return Pct{Value: v, Valid: true}
}

// Change 环比变化百分比 (cur-prev)/prev*100
func Change(cur, prev float64) Pct {
	return PctOf(cur-prev, prev)
}

// NotApplicable 是否不适用
func (p Pct) NotApplicable() bool { return !p.Valid }

func (p Pct) String() string {
	if !p.Valid {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

// MarshalJSON 数值或 null
func (p Pct) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON 接受数值或 null
func (p *Pct) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Pct{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Pct{Value: v, Valid: true}
	return nil
}

// KPIResult 核心指标；字段为 nil 表示源列不存在
type KPIResult struct {
	TotalSales  *float64 `json:"totalSales,omitempty"`
	TotalProfit *float64 `json:"totalProfit,omitempty"`
	TotalUnits  *float64 `json:"totalUnits,omitempty"`
	GrossMargin *Pct     `json:"grossMarginPct,omitempty"`
}

// Empty 是否没有任何指标
func (k KPIResult) Empty() bool {
	return k.TotalSales == nil && k.TotalProfit == nil && k.TotalUnits == nil && k.GrossMargin == nil
}

// TrendRow 年度汇总及同比
type TrendRow struct {
	Year      string   `json:"year"`
	Sales     *float64 `json:"sales,omitempty"`
	Profit    *float64 `json:"profit,omitempty"`
	Units     *float64 `json:"unitsSold,omitempty"`
	SalesYoY  *Pct     `json:"salesYoYPct,omitempty"`
	ProfitYoY *Pct     `json:"profitYoYPct,omitempty"`
}

// SegmentRow 细分市场汇总及毛利率
type SegmentRow struct {
	Segment     string   `json:"segment"`
	Sales       *float64 `json:"sales,omitempty"`
	Profit      *float64 `json:"profit,omitempty"`
	Units       *float64 `json:"unitsSold,omitempty"`
	GrossMargin *Pct     `json:"grossMarginPct,omitempty"`
}

// RankingRow 排行榜条目
type RankingRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Ranking 排行榜结果
type Ranking struct {
	GroupColumn  string       `json:"groupColumn"`
	MetricColumn string       `json:"metricColumn"`
	Rows         []RankingRow `json:"rows"`
}

// Report 单次上传的看板数据
type Report struct {
	Columns      []string     `json:"columns"`
	RowCount     int          `json:"rowCount"`
	FilteredRows int          `json:"filteredRowCount"`
	Preview      [][]string   `json:"preview"`
	KPIs         KPIResult    `json:"kpis"`
	Trend        []TrendRow   `json:"trend"`
	Segments     []SegmentRow `json:"segments"`
	TopProducts  *Ranking     `json:"topProducts,omitempty"`
	TopCountries *Ranking     `json:"topCountries,omitempty"`
}

// Float 返回 v 的指针
func Float(v float64) *float64 { return &v }
