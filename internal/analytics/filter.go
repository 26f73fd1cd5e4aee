package analytics

import (
	"strings"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// AllCategories 下拉框“全部”选项
const AllCategories = "All"

// Filter 聚合前的预过滤条件
// Column/Value 为分类等值过滤（Value 为空或 All 表示不过滤）；
// MinColumn/Min 为数值下限过滤（Min 为 nil 表示不过滤）
type Filter struct {
	Column    string   `json:"column,omitempty"`
	Value     string   `json:"value,omitempty"`
	MinColumn string   `json:"minColumn,omitempty"`
	Min       *float64 `json:"min,omitempty"`
}

func (f Filter) hasCategory() bool {
	v := strings.TrimSpace(f.Value)
	return f.Column != "" && v != "" && v != AllCategories
}

func (f Filter) hasMin() bool {
	return f.MinColumn != "" && f.Min != nil
}

// IsEmpty 是否未设置任何过滤
func (f Filter) IsEmpty() bool {
	return !f.hasCategory() && !f.hasMin()
}

// ApplyFilter 返回满足条件的行组成的新表，原表不变
// 引用不存在的列的条件被忽略；数值缺失的行不满足下限条件
func ApplyFilter(t *model.Table, f Filter) *model.Table {
	if t == nil || f.IsEmpty() {
		return t
	}
	useCategory := f.hasCategory() && t.HasColumn(f.Column)
	useMin := f.hasMin() && t.HasColumn(f.MinColumn)
	if !useCategory && !useMin {
		return t
	}

	// 与行的分组标签同样归一化："007" → "7"，"2020.0" → "2020"
	want := model.NewCell(f.Value).Key()
	indices := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if useCategory && t.Key(i, f.Column) != want {
			continue
		}
		if useMin {
			v, ok := t.Number(i, f.MinColumn)
			if !ok || v < *f.Min {
				continue
			}
		}
		indices = append(indices, i)
	}
	return t.Subset(indices)
}
