package models

import (
	"encoding/json"
	"time"
)

// CrawlReport 爬取报告
type CrawlReport struct {
	// 任务信息
	RunID    string   `json:"run_id"`
	SeedURLs []string `json:"seed_urls"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 是否被中断(信号取消)
	Interrupted bool `json:"interrupted"`

	// 统计信息
	Stats TaskStats `json:"stats"`

	// 节点结果
	Artifacts []*TextArtifact `json:"artifacts"` // 已保存的文本
	Discarded []DiscardedNode `json:"discarded"` // 抓取无内容的节点

	// Visited 已访问集合(排序), 丢弃的URL不在其中
	Visited []string `json:"visited_urls"`

	// 输出路径
	OutputDir string `json:"output_dir"`

	// 配置快照
	Config CrawlConfig `json:"config"`
}

// ToJSON 序列化为JSON
func (r *CrawlReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *CrawlReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
