package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// Version 服务版本
var Version = "dev"

// StatusResponse 系统状态响应
type StatusResponse struct {
	Service           string   `json:"service"`
	Version           string   `json:"version"`
	RecognizedColumns []string `json:"recognizedColumns"` // 看板可识别的列
	AcceptedFormats   []string `json:"acceptedFormats"`
	MaxUploadBytes    int64    `json:"maxUploadBytes"`
	HistoryEnabled    bool     `json:"historyEnabled"`
	TotalUploads      int      `json:"totalUploads"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Service:           "findash",
		Version:           Version,
		RecognizedColumns: model.RecognizedColumns,
		AcceptedFormats:   []string{".csv", ".xlsx", ".xlsm"},
		MaxUploadBytes:    h.opts.MaxUploadBytes,
		HistoryEnabled:    h.store != nil,
	}

	if h.store != nil {
		n, err := h.store.CountUploads()
		if err != nil {
			log.Warn().Err(err).Msg("count uploads")
		}
		resp.TotalUploads = n
	}

	c.JSON(http.StatusOK, resp)
}
