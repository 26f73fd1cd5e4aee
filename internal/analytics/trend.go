package analytics

import "github.com/Kunalpatil4054/gdp-dashboard/internal/model"

// ComputeYearlyTrend 年度趋势
// 需要 Year 列以及 Sales / Profit / Units Sold 至少一列，否则返回空。
// 结果按年份升序，同比基于上一行计算，首行同比为 null。
func ComputeYearlyTrend(t *model.Table) []model.TrendRow {
	if t == nil || !t.HasColumn(model.ColYear) {
		return nil
	}
	if len(t.PresentColumns(model.ColSales, model.ColProfit, model.ColUnitsSold)) == 0 {
		return nil
	}

	years, grouped := groupRows(t, model.ColYear)
	sortKeysAscending(years)

	trend := make([]model.TrendRow, 0, len(years))
	for _, year := range years {
		rows := grouped[year]
		trend = append(trend, model.TrendRow{
			Year:   year,
			Sales:  sumIfPresent(t, rows, model.ColSales),
			Profit: sumIfPresent(t, rows, model.ColProfit),
			Units:  sumIfPresent(t, rows, model.ColUnitsSold),
		})
	}

	for i := range trend {
		cur := &trend[i]
		if i == 0 {
			if cur.Sales != nil {
				cur.SalesYoY = &model.Pct{}
			}
			if cur.Profit != nil {
				cur.ProfitYoY = &model.Pct{}
			}
			continue
		}
		prev := trend[i-1]
		if cur.Sales != nil {
			p := model.Change(*cur.Sales, *prev.Sales)
			cur.SalesYoY = &p
		}
		if cur.Profit != nil {
			p := model.Change(*cur.Profit, *prev.Profit)
			cur.ProfitYoY = &p
		}
	}
	return trend
}
