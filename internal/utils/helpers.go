package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
)

// ReadURLsFromFile 从文件中读取种子URL列表
// 保持文件中的行顺序(决定种子编号 url{N}),跳过空行、注释行和无效URL
func ReadURLsFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("打开URL文件失败: %w", err)
	}
	defer file.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// 跳过空行和注释行
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// 验证URL格式
		if err := ValidateURL(line); err != nil {
			Warnf("跳过无效URL (行 %d): %s - %v", lineNum, line, err)
			continue
		}

		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取URL文件失败: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("URL文件中没有有效的URL")
	}

	Infof("从文件加载了 %d 个种子URL", len(urls))
	return urls, nil
}

// ValidateURL 验证URL格式
func ValidateURL(rawURL string) error {
	return models.ValidateURL(rawURL)
}

// MergeSeeds 按来源顺序拼接种子URL,仅去掉空白项
// 重复的种子保留,各自占用一个编号,出队时由已访问集合跳过
func MergeSeeds(sources ...[]string) []string {
	merged := make([]string, 0)
	for _, source := range sources {
		for _, seed := range source {
			if seed = strings.TrimSpace(seed); seed != "" {
				merged = append(merged, seed)
			}
		}
	}
	return merged
}
