package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// ErrNoData 没有可绘制的数据
var ErrNoData = errors.New("no data to plot")

// 系列配色
var palette = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

func color(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// Bar 柱状图单根柱子
type Bar struct {
	Label string
	Value float64
}

// DataURI PNG 转为 data URI，前端直接放进 <img src>
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// TrendLine 年度趋势折线图（Sales / Profit 中存在的列）
func TrendLine(rows []model.TrendRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	xs := make([]float64, len(rows))
	ticks := make([]gochart.Tick, len(rows))
	for i, r := range rows {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: r.Year}
	}

	var series []gochart.Series
	var all []float64
	add := func(name string, pick func(model.TrendRow) *float64) {
		if pick(rows[0]) == nil {
			return
		}
		ys := make([]float64, len(rows))
		for i, r := range rows {
			ys[i] = *pick(r)
		}
		all = append(all, ys...)
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: color(len(series)),
				StrokeWidth: 2,
				DotColor:    color(len(series)),
				DotWidth:    4,
			},
		})
	}
	add(model.ColSales, func(r model.TrendRow) *float64 { return r.Sales })
	add(model.ColProfit, func(r model.TrendRow) *float64 { return r.Profit })
	if len(series) == 0 {
		return nil, ErrNoData
	}

	lo, hi := valueRange(all)
	graph := gochart.Chart{
		Title:  "Yearly Trends",
		Width:  900,
		Height: 420,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  model.ColYear,
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(rows)) - 0.5},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Bars 柱状图
func Bars(title string, bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	values := make([]gochart.Value, len(bars))
	nums := make([]float64, len(bars))
	for i, b := range bars {
		nums[i] = b.Value
		values[i] = gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{
				FillColor:   color(0),
				StrokeColor: color(0),
				StrokeWidth: 1,
			},
		}
	}

	lo, hi := valueRange(nums)
	bc := gochart.BarChart{
		Title:  title,
		Width:  200 + len(bars)*80,
		Height: 420,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:   40,
		BarSpacing: 30,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := bc.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SegmentBars 细分市场指标柱状图，metric 为 Sales 或 Profit
func SegmentBars(rows []model.SegmentRow, metric string) ([]byte, error) {
	bars := make([]Bar, 0, len(rows))
	for _, r := range rows {
		var v *float64
		switch metric {
		case model.ColSales:
			v = r.Sales
		case model.ColProfit:
			v = r.Profit
		case model.ColUnitsSold:
			v = r.Units
		}
		if v == nil {
			return nil, ErrNoData
		}
		bars = append(bars, Bar{Label: r.Segment, Value: *v})
	}
	return Bars(fmt.Sprintf("%s by Segment", metric), bars)
}

// RankingBars 排行榜柱状图
func RankingBars(title string, r *model.Ranking) ([]byte, error) {
	if r == nil {
		return nil, ErrNoData
	}
	bars := make([]Bar, len(r.Rows))
	for i, row := range r.Rows {
		bars[i] = Bar{Label: row.Label, Value: row.Value}
	}
	return Bars(title, bars)
}

// valueRange 纵轴范围，始终包含 0 且上下限不相等
func valueRange(vals []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}
