package analytics

import "github.com/Kunalpatil4054/gdp-dashboard/internal/model"

// ComputeSegmentSummary 细分市场汇总，按 Segment 字典序排列
func ComputeSegmentSummary(t *model.Table) []model.SegmentRow {
	if t == nil || !t.HasColumn(model.ColSegment) {
		return nil
	}

	segments, grouped := groupRows(t, model.ColSegment)
	sortKeysAscending(segments)

	result := make([]model.SegmentRow, 0, len(segments))
	for _, seg := range segments {
		rows := grouped[seg]
		row := model.SegmentRow{
			Segment: seg,
			Sales:   sumIfPresent(t, rows, model.ColSales),
			Profit:  sumIfPresent(t, rows, model.ColProfit),
			Units:   sumIfPresent(t, rows, model.ColUnitsSold),
		}
		if row.Sales != nil && row.Profit != nil {
			margin := model.PctOf(*row.Profit, *row.Sales)
			row.GrossMargin = &margin
		}
		result = append(result, row)
	}
	return result
}
