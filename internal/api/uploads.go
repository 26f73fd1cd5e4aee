package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/store"
)

// ListUploads 最近的上传记录（仅元数据）
// GET /api/uploads?limit=50
func (h *Handler) ListUploads(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "uploads": []store.Upload{}})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须为正整数"})
			return
		}
		limit = n
	}

	uploads, err := h.store.ListUploads(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询上传记录失败"})
		return
	}
	if uploads == nil {
		uploads = []store.Upload{}
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "uploads": uploads})
}
