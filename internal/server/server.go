package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/api"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/config"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/explorer"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/logging"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// DatabaseFile 上传历史数据库文件名
const DatabaseFile = "findash.db"

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer 创建服务器
// data.history 为 false 时不打开数据库
func NewServer(cfg *config.AppConfig) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	var sqliteStore *store.Store
	if cfg.Data.History {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		sqliteStore, err = store.Open(filepath.Join(dataDir, DatabaseFile))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	handler := api.NewHandler(sqliteStore, explorer.New(cfg.Explorer.Seed, cfg.Explorer.Rows), api.Options{
		TopN:           cfg.Dashboard.TopN,
		PreviewRows:    cfg.Dashboard.PreviewRows,
		MaxUploadBytes: int64(cfg.Dashboard.MaxUploadMB) << 20,
		ExportTTL:      time.Duration(cfg.Dashboard.ExportTTLMinutes) * time.Minute,
	})

	s := &Server{
		router: gin.New(),
		store:  sqliteStore,
		api:    handler,
	}
	// multipart 解析时超出部分落盘
	s.router.MaxMultipartMemory = 8 << 20

	s.setupRoutes()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), logging.GinLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 看板页面
	sub, err := fs.Sub(staticFiles, "dist")
	if err != nil {
		log.Error().Err(err).Msg("embedded dashboard missing")
		return
	}
	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)

	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
			return
		}
		index(c)
	})
}

// Handler 返回 http.Handler（用于测试与自定义 http.Server）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放数据库连接
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
