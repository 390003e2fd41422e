package utils

import (
	"net/http"
	"sort"
	"strings"
)

// SensitiveKeywords 头部名称中出现这些关键字时,日志里隐藏其值
var SensitiveKeywords = []string{"authorization", "cookie", "token", "key", "secret", "password", "credential"}

// HeaderRedactor 日志输出前隐藏敏感头部
type HeaderRedactor struct {
	keywords []string
}

// NewHeaderRedactor 创建脱敏器
func NewHeaderRedactor() *HeaderRedactor {
	return &HeaderRedactor{keywords: SensitiveKeywords}
}

// IsSensitiveHeader 按名称关键字判断
func (hr *HeaderRedactor) IsSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range hr.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// RedactHeaderValue 脱敏单个值
func (hr *HeaderRedactor) RedactHeaderValue(name, value string) string {
	switch {
	case !hr.IsSensitiveHeader(name):
		return value
	case strings.HasPrefix(value, "Bearer "):
		return "Bearer ***"
	case len(value) > 8:
		return value[:4] + "***" + value[len(value)-4:]
	default:
		return "***"
	}
}

// RedactToString 按名称排序输出 "Name: value, ..." 用于日志
func (hr *HeaderRedactor) RedactToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name, values := range headers {
		if len(values) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+hr.RedactHeaderValue(name, headers[name][0]))
	}
	return strings.Join(parts, ", ")
}
