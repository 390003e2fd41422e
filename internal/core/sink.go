package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
)

// PersistError 文本写入失败, 会终止整个爬取
type PersistError struct {
	Identifier string
	URL        string
	Err        error
}

// Error 实现error接口
func (e *PersistError) Error() string {
	return fmt.Sprintf("保存文本失败 [%s] %s: %v", e.Identifier, e.URL, e.Err)
}

// Unwrap 支持errors.Unwrap
func (e *PersistError) Unwrap() error {
	return e.Err
}

// TextSink 将清洗后的文本写入 <dir>/<identifier>.txt
type TextSink struct {
	dir string
}

// NewTextSink 创建文本输出, dir为空时使用默认目录
func NewTextSink(dir string) *TextSink {
	if dir == "" {
		dir = models.DefaultOutputDir
	}
	return &TextSink{dir: dir}
}

// Persist 实现 models.ArtifactSink
// 每次写入前确保目录存在, 同名文件直接覆盖
func (s *TextSink) Persist(identifier string, text string) (string, error) {
	if identifier == "" || strings.ContainsAny(identifier, `/\`) || identifier == "." || identifier == ".." {
		return "", fmt.Errorf("无效的标识符: %q", identifier)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败 [%s]: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, models.CrawlNode{Identifier: identifier}.Filename())
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("写入文件失败 [%s]: %w", path, err)
	}

	utils.Debugf("写入 %d 字节: %s", len(text), path)
	return path, nil
}

var _ models.ArtifactSink = (*TextSink)(nil)
