package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/model"
)

// Format 上传文件格式
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format (expected .csv or .xlsx)")
	ErrEmptyFile         = errors.New("file contains no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat 根据文件扩展名判断格式
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Load 按文件名选择解析器，将上传内容解析为数据表
func Load(name string, r io.Reader) (*model.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatExcel:
		return ParseExcel(r)
	default:
		return ParseCSV(r)
	}
}

// ParseCSV 解析 CSV，允许各行字段数不一致
func ParseCSV(r io.Reader) (*model.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return buildTable(rows)
}

// ParseExcel 解析工作簿的第一个工作表
func ParseExcel(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// 读取原始值，避免数字格式（千分位、货币符号）影响解析
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return buildTable(rows)
}

// buildTable 首个非空行为表头，空行跳过
func buildTable(rows [][]string) (*model.Table, error) {
	start := -1
	for i, row := range rows {
		if !isBlank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmptyFile
	}

	headers := NormalizeHeaders(rows[start])
	records := make([][]string, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, row)
	}
	return model.NewTable(headers, records), nil
}

// NormalizeHeaders 去除首尾空白；空表头命名为 Column_N，重复表头追加 _2、_3 后缀
// 生成的名称同样参与去重，保证结果互不相同
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		for used[name] {
			suffix[h]++
			name = fmt.Sprintf("%s_%d", h, suffix[h]+1)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
