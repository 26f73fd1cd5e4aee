package util

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber 千分位格式化，保留 places 位小数
// 例：FormatNumber(1234567.891, 2) = "1,234,567.89"
func FormatNumber(value float64, places int32) string {
	s := decimal.NewFromFloat(value).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String() + fracPart
	if strings.Trim(out, "-0.,") == "" {
		return strings.TrimPrefix(out, "-")
	}
	return out
}

// FormatOptional nil 显示为 "-"
func FormatOptional(value *float64, places int32) string {
	if value == nil {
		return "-"
	}
	return FormatNumber(*value, places)
}

// FormatCount 整数千分位
func FormatCount(n int) string {
	return FormatNumber(float64(n), 0)
}

// ParseOptionalFloat 空串返回 nil
func ParseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
