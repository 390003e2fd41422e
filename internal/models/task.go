package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultLinkLimit 每个页面默认提取的链接数
	DefaultLinkLimit = 2

	// DefaultFetchTimeout 默认HTTP请求超时
	DefaultFetchTimeout = 5 * time.Second

	// DefaultRateLimitDelay 每次抓取后的默认等待时间
	DefaultRateLimitDelay = 5 * time.Second

	// DefaultOutputDir 默认文本输出目录
	DefaultOutputDir = "data"

	// DefaultMaxBodySize 默认响应体大小上限 10MB
	DefaultMaxBodySize = 10 * 1024 * 1024

	// 超过以下数量时标识符拼接方案可能产生冲突
	// 例如 url1 的第1个子链接 "url11" 与第11个种子 "url11" 相同
	maxCollisionFreeSeeds     = 10
	maxCollisionFreeLinkLimit = 9
)

// NodeState 爬取节点在驱动循环中的终态
type NodeState string

const (
	NodeQueued           NodeState = "queued"            // 在队列中等待
	NodeSkippedDuplicate NodeState = "skipped_duplicate" // URL已访问,跳过
	NodeSkippedDepth     NodeState = "skipped_depth"     // 超过最大深度,跳过
	NodeDiscarded        NodeState = "discarded"         // 抓取无内容,丢弃
	NodePersisted        NodeState = "persisted"         // 已清洗并保存
)

// Fetched 该状态是否发生过网络抓取(决定是否需要限速等待)
func (s NodeState) Fetched() bool {
	return s == NodeDiscarded || s == NodePersisted
}

// TaskStats 爬取统计
type TaskStats struct {
	Dequeued             int     `json:"dequeued"`              // 出队节点数
	SkippedDuplicate     int     `json:"skipped_duplicate"`     // 重复URL跳过数
	SkippedDepth         int     `json:"skipped_depth"`         // 超深度跳过数
	Fetched              int     `json:"fetched"`               // 发起抓取数
	Discarded            int     `json:"discarded"`             // 无内容丢弃数
	Persisted            int     `json:"persisted"`             // 保存文本数
	LinksEnqueued        int     `json:"links_enqueued"`        // 入队子链接数
	IdentifierCollisions int     `json:"identifier_collisions"` // 标识符冲突数
	TotalBytes           int64   `json:"total_bytes"`           // 保存的文本总字节数
	Duration             float64 `json:"duration"`              // 总耗时(秒)
}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	SeedURLs         []string      `mapstructure:"seed_urls" json:"seed_urls"`                 // 种子URL(顺序决定 url{N} 编号)
	MaxDepth         int           `mapstructure:"max_depth" json:"max_depth"`                 // 最大深度(包含)
	LinkLimit        int           `mapstructure:"link_limit" json:"link_limit"`               // 每页提取链接数 (默认:2)
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout" json:"fetch_timeout"`         // HTTP超时 (默认:5s)
	RateLimitDelay   time.Duration `mapstructure:"rate_limit_delay" json:"rate_limit_delay"`   // 抓取后等待 (默认:5s)
	MaxBodySize      int           `mapstructure:"max_body_size" json:"max_body_size"`         // 响应体上限(字节)
	ProgressInterval time.Duration `mapstructure:"progress_interval" json:"progress_interval"` // 进度日志间隔,0为关闭

	// InsecureSkipVerify 跳过TLS证书验证(自签名或内网站点)
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify"`
}

// DefaultCrawlConfig 返回参考行为的默认配置
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxDepth:       0,
		LinkLimit:      DefaultLinkLimit,
		FetchTimeout:   DefaultFetchTimeout,
		RateLimitDelay: DefaultRateLimitDelay,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if len(c.SeedURLs) == 0 {
		return fmt.Errorf("至少需要一个种子URL")
	}
	for i, seed := range c.SeedURLs {
		if err := ValidateURL(seed); err != nil {
			return fmt.Errorf("第%d个种子URL无效 [%s]: %w", i+1, seed, err)
		}
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("最大深度不能为负数,当前值: %d", c.MaxDepth)
	}
	if c.LinkLimit < 1 {
		return fmt.Errorf("链接数必须大于0,当前值: %d", c.LinkLimit)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("请求超时必须大于0,当前值: %v", c.FetchTimeout)
	}
	if c.RateLimitDelay < 0 {
		return fmt.Errorf("等待时间不能为负数,当前值: %v", c.RateLimitDelay)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("响应体上限不能为负数,当前值: %d", c.MaxBodySize)
	}
	return nil
}

// CollisionWarnings 返回标识符可能冲突的提示
// 拼接方案仅在种子数<=10且链接数<=9时保证唯一
func (c *CrawlConfig) CollisionWarnings() []string {
	var warnings []string
	if len(c.SeedURLs) > maxCollisionFreeSeeds {
		warnings = append(warnings, fmt.Sprintf(
			"种子数量 %d 超过 %d,种子标识符可能与子节点标识符冲突", len(c.SeedURLs), maxCollisionFreeSeeds))
	}
	if c.LinkLimit > maxCollisionFreeLinkLimit {
		warnings = append(warnings, fmt.Sprintf(
			"链接数 %d 超过 %d,子节点标识符可能互相冲突", c.LinkLimit, maxCollisionFreeLinkLimit))
	}
	return warnings
}

// ToJSON 序列化为JSON
func (c *CrawlConfig) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
