package main

import (
	"fmt"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/core"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"github.com/spf13/cobra"
)

// ValidateFlags 验证命令行显式设置的标志
func ValidateFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("depth") {
		if err := validateDepth(depth); err != nil {
			return err
		}
	}
	if flags.Changed("links") {
		if err := validateLinkLimit(linkLimit); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if err := validateTimeout(fetchTimeout); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if err := validateDelay(delay); err != nil {
			return err
		}
	}
	return nil
}

func validateDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("爬取深度不能为负数,当前值: %d", depth)
	}
	return nil
}

func validateLinkLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("链接数必须大于0,当前值: %d", limit)
	}
	return nil
}

func validateTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("请求超时必须大于0,当前值: %v", timeout)
	}
	return nil
}

func validateDelay(delay time.Duration) error {
	if delay < 0 {
		return fmt.Errorf("等待时间不能为负数,当前值: %v", delay)
	}
	return nil
}

// CollectSeeds 合并 -u 和 -f 给出的种子, -u 在前
func CollectSeeds(urls []string, file string) ([]string, error) {
	for _, u := range urls {
		if err := models.ValidateURL(u); err != nil {
			return nil, fmt.Errorf("无效的种子URL [%s]: %w", u, err)
		}
	}

	var fromFile []string
	if file != "" {
		loaded, err := utils.ReadURLsFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("读取URL文件失败: %w", err)
		}
		fromFile = loaded
	}

	return utils.MergeSeeds(urls, fromFile), nil
}

// runValidateConfig 加载并验证头部配置, 输出脱敏后的有效头部
func runValidateConfig(headerManager *core.HeaderManager) error {
	utils.Info("🔍 验证HTTP头部配置...")
	if err := headerManager.LoadConfig(); err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := headerManager.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	utils.Info("✅ 配置验证通过!")
	utils.Infof("当前有效的HTTP头部 (%d个): %s", len(headerManager.GetMergedHeaders()), headerManager.SafeString())
	return nil
}
