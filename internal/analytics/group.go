package analytics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// groupRows 按列分组，返回首次出现顺序的分组键和各组行下标
// 空键不参与分组
func groupRows(t *model.Table, col string) ([]string, map[string][]int) {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < t.Len(); i++ {
		key := t.Key(i, col)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}
	return order, grouped
}

// allRows 全部行下标
func allRows(t *model.Table) []int {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// sumColumn 对指定行求和，缺失值和非数值不计入
// 使用 decimal 累加，避免金额合计出现二进制浮点误差
func sumColumn(t *model.Table, rows []int, col string) float64 {
	total := decimal.Zero
	for _, i := range rows {
		if v, ok := t.Number(i, col); ok {
			total = total.Add(decimal.NewFromFloat(v))
		}
	}
	f, _ := total.Float64()
	return f
}

// sumIfPresent 列存在时返回合计，否则 nil
func sumIfPresent(t *model.Table, rows []int, col string) *float64 {
	if !t.HasColumn(col) {
		return nil
	}
	return model.Float(sumColumn(t, rows, col))
}

// sortKeysAscending 全部为数字时按数值排序，否则按字典序
func sortKeysAscending(keys []string) {
	nums := make(map[string]float64, len(keys))
	numeric := true
	for _, k := range keys {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[k] = f
	}
	if numeric {
		sort.SliceStable(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
		return
	}
	sort.Strings(keys)
}
