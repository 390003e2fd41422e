package models

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// TextArtifact 一个已保存的文本文件
type TextArtifact struct {
	// 标识信息
	Identifier string `json:"identifier"` // 节点标识符(文件名不含扩展名)
	URL        string `json:"url"`        // 页面URL
	FilePath   string `json:"file_path"`  // 本地存储路径

	// 元数据
	Depth int    `json:"depth"` // 爬取深度
	Title string `json:"title"` // 页面<title>,可能为空
	Hash  string `json:"hash"`  // 文本SHA-256
	Size  int64  `json:"size"`  // 文本大小(字节)

	// 子链接数量
	LinksEnqueued int `json:"links_enqueued"`

	// 时间戳
	PersistedAt time.Time `json:"persisted_at"`
}

// NewTextArtifact 根据节点和清洗后的文本构造元数据
func NewTextArtifact(node CrawlNode, filePath, title, text string) *TextArtifact {
	return &TextArtifact{
		Identifier:  node.Identifier,
		URL:         node.URL,
		FilePath:    filePath,
		Depth:       node.Depth,
		Title:       title,
		Hash:        HashText(text),
		Size:        int64(len(text)),
		PersistedAt: time.Now(),
	}
}

// HashText 计算文本SHA-256
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum)
}

// ToJSON 序列化为JSON
func (a *TextArtifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// DiscardedNode 抓取后被丢弃的节点
type DiscardedNode struct {
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Depth      int    `json:"depth"`
	StatusCode int    `json:"status_code"` // 0 表示传输失败
	Reason     string `json:"reason"`      // timeout, network_error, http_status, empty_body 等
}
