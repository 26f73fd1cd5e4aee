package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/analytics"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/explorer"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/store"
)

// Options 处理器参数
type Options struct {
	TopN           int
	PreviewRows    int
	MaxUploadBytes int64
	ExportTTL      time.Duration
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = analytics.DefaultTopN
	}
	if o.PreviewRows <= 0 {
		o.PreviewRows = analytics.DefaultPreviewRows
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 32 << 20
	}
	if o.ExportTTL <= 0 {
		o.ExportTTL = 10 * time.Minute
	}
	return o
}

// Handler API 处理器
// store 为 nil 时不记录上传历史
type Handler struct {
	store     *store.Store
	explorer  *explorer.Explorer
	downloads *exportDownloadStore
	opts      Options
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, exp *explorer.Explorer, opts Options) *Handler {
	if exp == nil {
		exp = explorer.New(explorer.DefaultSeed, explorer.DefaultRows)
	}
	return &Handler{
		store:     st,
		explorer:  exp,
		downloads: newExportDownloadStore(),
		opts:      opts.withDefaults(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传并生成看板
	router.POST("/report", h.CreateReport)
	router.GET("/export/download/:token", h.DownloadExport)

	// 上传历史
	router.GET("/uploads", h.ListUploads)

	// 合成数据演示
	router.GET("/explorer/categories", h.ExplorerCategories)
	router.GET("/explorer", h.RunExplorer)
}
