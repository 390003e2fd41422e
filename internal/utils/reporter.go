package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

const (
	crawlReportName = "crawl_report.json"
	artifactsName   = "artifacts.json"
	discardedName   = "discarded.json"
)

// Reporter 报告生成器
type Reporter struct {
	reportDir string
}

// NewReporter 创建报告生成器, reportDir为报告输出目录
func NewReporter(reportDir string) *Reporter {
	return &Reporter{reportDir: reportDir}
}

// Dir 报告目录
func (r *Reporter) Dir() string {
	return r.reportDir
}

// GenerateReport 写入本次运行的报告
//   - crawl_report.json: 完整报告
//   - artifacts.json: 已保存文本列表
//   - discarded.json: 抓取无内容的节点
func (r *Reporter) GenerateReport(report *models.CrawlReport) error {
	if err := os.MkdirAll(r.reportDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	artifacts := report.Artifacts
	if artifacts == nil {
		artifacts = []*models.TextArtifact{}
	}
	discarded := report.Discarded
	if discarded == nil {
		discarded = []models.DiscardedNode{}
	}

	if err := r.saveJSONReport(crawlReportName, report); err != nil {
		return err
	}
	if err := r.saveJSONReport(artifactsName, artifacts); err != nil {
		return err
	}
	if err := r.saveJSONReport(discardedName, discarded); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", r.reportDir)
	return nil
}

// LoadReport 读取已生成的主报告
func (r *Reporter) LoadReport() (*models.CrawlReport, error) {
	data, err := os.ReadFile(filepath.Join(r.reportDir, crawlReportName))
	if err != nil {
		return nil, fmt.Errorf("读取报告失败: %w", err)
	}
	var report models.CrawlReport
	if err := report.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析报告失败: %w", err)
	}
	return &report, nil
}

func (r *Reporter) saveJSONReport(filename string, data interface{}) error {
	path := filepath.Join(r.reportDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}

// NewProgressBar 创建进度条
// max为-1时显示为不定长的计数器(队列长度在爬取过程中不断变化)
func NewProgressBar(max int, description string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("页"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
