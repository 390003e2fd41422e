package utils

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
)

func TestHeaderValidator_ValidateHeader(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerName  string
		headerValue string
		wantField   string // 空表示期望通过
	}{
		{"合法User-Agent", "User-Agent", "Mozilla/5.0", ""},
		{"合法名称带数字", "X-Request-ID-123", "abc", ""},
		{"合法值含制表符", "X-Custom", "a\tb", ""},
		{"最大长度的值", "X-Long", strings.Repeat("a", MaxHeaderValueLength), ""},
		{"空名称", "", "v", "name"},
		{"名称含空格", "User Agent", "v", "name"},
		{"名称含下划线", "User_Agent", "v", "name"},
		{"禁止的Host", "Host", "example.com", "name"},
		{"禁止头部不区分大小写", "content-length", "10", "name"},
		{"值过长", "X-Long", strings.Repeat("a", MaxHeaderValueLength+1), "value"},
		{"值含换行", "X-Custom", "a\nb", "value"},
		{"值含非ASCII", "X-Custom", "中文", "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateHeader(tt.headerName, tt.headerValue)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("期望通过, 得到错误: %v", err)
				}
				return
			}

			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("期望ValidationError, 得到 %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestHeaderValidator_Validate(t *testing.T) {
	validator := NewHeaderValidator()

	valid := http.Header{}
	valid.Set("User-Agent", "Mozilla/5.0")
	valid.Set("Accept-Language", "en")
	if err := validator.Validate(valid); err != nil {
		t.Errorf("合法头部集合验证失败: %v", err)
	}

	invalid := valid.Clone()
	invalid.Set("Connection", "close")
	invalid.Set("X-Bad", "a\x00b")

	// 按名称排序后第一个非法头部是Connection
	err := validator.Validate(invalid)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) || vErr.HeaderName != "Connection" {
		t.Errorf("期望Connection验证失败, 得到 %v", err)
	}

	if err := validator.Validate(nil); err != nil {
		t.Errorf("nil头部应通过: %v", err)
	}
}
