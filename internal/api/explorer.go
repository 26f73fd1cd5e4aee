package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/chart"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/explorer"
)

// SliderConfig 滑块参数
type SliderConfig struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// ExplorerResponse 演示结果
type ExplorerResponse struct {
	*explorer.Result
	Chart string `json:"chart,omitempty"`
}

// ExplorerCategories 下拉框与滑块配置
// GET /api/explorer/categories
func (h *Handler) ExplorerCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.explorer.Categories(),
		"slider": SliderConfig{
			Min:     explorer.SliderMin,
			Max:     explorer.SliderMax,
			Step:    explorer.SliderStep,
			Default: explorer.SliderDefault,
		},
	})
}

// RunExplorer 按分类与 Value1 下限筛选合成数据
// GET /api/explorer?category=A&min=20
func (h *Handler) RunExplorer(c *gin.Context) {
	minValue := float64(explorer.SliderDefault)
	if v := c.Query("min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min 必须为数值"})
			return
		}
		minValue = f
	}

	res, err := h.explorer.Run(c.Query("category"), minValue)
	if err != nil {
		if errors.Is(err, explorer.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := ExplorerResponse{Result: res}
	png, err := res.Plot()
	switch {
	case err == nil:
		resp.Chart = chart.DataURI(png)
	case errors.Is(err, chart.ErrNoData):
	default:
		log.Warn().Err(err).Str("category", res.Category).Msg("render explorer chart")
	}

	c.JSON(http.StatusOK, resp)
}
