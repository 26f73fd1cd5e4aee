package analytics

import "github.com/Kunalpatil4054/gdp-dashboard/internal/model"

// DefaultPreviewRows 预览行数
const DefaultPreviewRows = 5

// Options 报表参数
type Options struct {
	Filter      Filter
	TopN        int
	PreviewRows int
}

// BuildReport 计算看板全部内容
// 预览取自原始表，其余结果基于过滤后的表计算；每次调用都从头计算
func BuildReport(t *model.Table, opts Options) *model.Report {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if t == nil {
		t = model.NewTable(nil, nil)
	}

	filtered := ApplyFilter(t, opts.Filter)

	return &model.Report{
		Columns:      t.Columns,
		RowCount:     t.Len(),
		FilteredRows: filtered.Len(),
		Preview:      t.Head(opts.PreviewRows),
		KPIs:         ComputeKPIs(filtered),
		Trend:        ComputeYearlyTrend(filtered),
		Segments:     ComputeSegmentSummary(filtered),
		TopProducts:  rankingOf(filtered, model.ColProduct, model.ColSales, opts.TopN),
		TopCountries: rankingOf(filtered, model.ColCountry, model.ColProfit, opts.TopN),
	}
}
