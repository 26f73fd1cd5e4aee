package analytics

import "github.com/Kunalpatil4054/gdp-dashboard/internal/model"

// ComputeKPIs 计算核心指标
// 缺失的列对应指标留空；两列都存在时计算毛利率，销售额合计为 0 时毛利率为 N/A
func ComputeKPIs(t *model.Table) model.KPIResult {
	var kpi model.KPIResult
	if t == nil {
		return kpi
	}
	rows := allRows(t)

	kpi.TotalSales = sumIfPresent(t, rows, model.ColSales)
	kpi.TotalProfit = sumIfPresent(t, rows, model.ColProfit)
	kpi.TotalUnits = sumIfPresent(t, rows, model.ColUnitsSold)

	if kpi.TotalSales != nil && kpi.TotalProfit != nil {
		margin := model.PctOf(*kpi.TotalProfit, *kpi.TotalSales)
		kpi.GrossMargin = &margin
	}
	return kpi
}
