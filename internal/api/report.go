package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/analytics"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/chart"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/exporter"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/loader"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// multipart 表单除文件外的开销上限
const multipartOverhead = 1 << 20

// ReportResponse 看板响应
type ReportResponse struct {
	UploadID    string            `json:"uploadId"`
	FileName    string            `json:"fileName"`
	Filter      analytics.Filter  `json:"filter"`
	Report      *model.Report     `json:"report"`
	Charts      map[string]string `json:"charts"`
	DownloadURL string            `json:"downloadUrl,omitempty"`
}

type uploadedFile struct {
	name string
	data []byte
	hash string
}

// CreateReport 上传 CSV / Excel 并计算看板
// POST /api/report (multipart: file, filterColumn, filterValue, minColumn, minValue, topN)
func (h *Handler) CreateReport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+multipartOverhead)

	file, status, err := h.readUpload(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	opts, err := h.parseReportOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadID := uuid.NewString()
	logger := log.With().Str("upload_id", uploadID).Str("file", file.name).Logger()

	format, err := loader.DetectFormat(file.name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var logID int64
	if h.store != nil {
		logID, err = h.store.CreateUpload(uploadID, file.name, string(format), int64(len(file.data)), file.hash)
		if err != nil {
			logger.Warn().Err(err).Msg("record upload")
		}
	}

	table, err := loader.Load(file.name, bytes.NewReader(file.data))
	if err != nil {
		logger.Info().Err(err).Msg("parse upload")
		if logID > 0 {
			if ferr := h.store.FailUpload(logID, err.Error()); ferr != nil {
				logger.Warn().Err(ferr).Msg("record upload failure")
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法解析文件: " + err.Error()})
		return
	}

	report := analytics.BuildReport(table, opts)
	if logID > 0 {
		if err := h.store.CompleteUpload(logID, table.Len(), len(table.Columns)); err != nil {
			logger.Warn().Err(err).Msg("record upload completion")
		}
	}

	resp := ReportResponse{
		UploadID: uploadID,
		FileName: file.name,
		Filter:   opts.Filter,
		Report:   report,
		Charts:   renderCharts(report),
	}

	if url, err := h.prepareExport(c, report, uploadID); err != nil {
		logger.Warn().Err(err).Msg("prepare export")
	} else {
		resp.DownloadURL = url
	}

	logger.Info().
		Int("rows", report.RowCount).
		Int("filtered_rows", report.FilteredRows).
		Int("columns", len(report.Columns)).
		Msg("report built")

	c.JSON(http.StatusOK, resp)
}

// readUpload 读取 file 字段，返回失败时应答的状态码
func (h *Handler) readUpload(c *gin.Context) (*uploadedFile, int, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, h.tooLargeError()
		}
		return nil, http.StatusBadRequest, errors.New("未找到上传文件")
	}
	if fh.Size > h.opts.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, h.tooLargeError()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("读取上传文件失败: %w", err)
	}

	sum := sha256.Sum256(data)
	return &uploadedFile{
		name: filepath.Base(fh.Filename),
		data: data,
		hash: hex.EncodeToString(sum[:]),
	}, http.StatusOK, nil
}

func (h *Handler) tooLargeError() error {
	return fmt.Errorf("文件超过大小限制 (%d MB)", h.opts.MaxUploadBytes>>20)
}

// parseReportOptions 解析过滤与排行参数
func (h *Handler) parseReportOptions(c *gin.Context) (analytics.Options, error) {
	opts := analytics.Options{
		TopN:        h.opts.TopN,
		PreviewRows: h.opts.PreviewRows,
		Filter: analytics.Filter{
			Column:    strings.TrimSpace(c.PostForm("filterColumn")),
			Value:     strings.TrimSpace(c.PostForm("filterValue")),
			MinColumn: strings.TrimSpace(c.PostForm("minColumn")),
		},
	}

	if v := strings.TrimSpace(c.PostForm("minValue")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("minValue 必须为数值: %q", v)
		}
		opts.Filter.Min = &f
	}

	if v := strings.TrimSpace(c.PostForm("topN")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("topN 必须为正整数: %q", v)
		}
		opts.TopN = n
	}

	return opts, nil
}

// renderCharts 渲染看板图表；缺少数据的图表直接省略，渲染失败只记录日志
func renderCharts(r *model.Report) map[string]string {
	charts := make(map[string]string)
	add := func(name string, png []byte, err error) {
		switch {
		case err == nil:
			charts[name] = chart.DataURI(png)
		case errors.Is(err, chart.ErrNoData):
		default:
			log.Warn().Err(err).Str("chart", name).Msg("render chart")
		}
	}

	png, err := chart.TrendLine(r.Trend)
	add("trend", png, err)
	png, err = chart.SegmentBars(r.Segments, model.ColSales)
	add("segmentSales", png, err)
	png, err = chart.SegmentBars(r.Segments, model.ColProfit)
	add("segmentProfit", png, err)
	png, err = chart.RankingBars("Top Products by Sales", r.TopProducts)
	add("topProducts", png, err)
	png, err = chart.RankingBars("Top Countries by Profit", r.TopCountries)
	add("topCountries", png, err)

	return charts
}

// prepareExport 生成 Excel 并返回一次性下载地址
func (h *Handler) prepareExport(c *gin.Context, r *model.Report, uploadID string) (string, error) {
	file, err := exporter.NewExporter().Export(r)
	if err != nil {
		return "", err
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("findash_export_%s.xlsx", uploadID))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("写入导出文件失败: %w", err)
	}

	fileName := fmt.Sprintf("findash_report_%s.xlsx", uploadID[:8])
	token := h.downloads.put(tempPath, fileName, h.opts.ExportTTL)

	prefix := strings.TrimSuffix(c.FullPath(), "/report")
	if prefix == "" {
		prefix = "/api"
	}
	return fmt.Sprintf("%s/export/download/%s", prefix, token), nil
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.FileAttachment(item.filePath, item.fileName)
}
