package analytics

import (
	"sort"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// DefaultTopN 排行榜默认条数
const DefaultTopN = 10

// ComputeTopN 按 groupColumn 分组汇总 metricColumn，降序取前 n 条
// 合计相同按首次出现顺序排列；n <= 0 时取 DefaultTopN
func ComputeTopN(t *model.Table, groupColumn, metricColumn string, n int) []model.RankingRow {
	if t == nil || !t.HasColumn(groupColumn) || !t.HasColumn(metricColumn) {
		return nil
	}
	if n <= 0 {
		n = DefaultTopN
	}

	keys, grouped := groupRows(t, groupColumn)
	rows := make([]model.RankingRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, model.RankingRow{
			Label: key,
			Value: sumColumn(t, grouped[key], metricColumn),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// rankingOf 列存在时构建排行榜
func rankingOf(t *model.Table, groupColumn, metricColumn string, n int) *model.Ranking {
	if !t.HasColumn(groupColumn) || !t.HasColumn(metricColumn) {
		return nil
	}
	return &model.Ranking{
		GroupColumn:  groupColumn,
		MetricColumn: metricColumn,
		Rows:         ComputeTopN(t, groupColumn, metricColumn, n),
	}
}
