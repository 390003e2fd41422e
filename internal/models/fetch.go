package models

import "context"

// FetchResult 抓取结果: Fetched(text) 或 Absent
// "无内容"是一个可测试的值,而不是被吞掉的错误
type FetchResult struct {
	// URL 请求的URL
	URL string

	// Content 原始响应文本(仅在found时有效)
	Content string

	// StatusCode HTTP状态码(传输失败时为0)
	StatusCode int

	// Reason 缺失原因(仅在!found时有效)
	Reason string

	found bool
}

// Fetched 构造成功的抓取结果
func Fetched(url, content string, statusCode int) FetchResult {
	return FetchResult{
		URL:        url,
		Content:    content,
		StatusCode: statusCode,
		found:      true,
	}
}

// Absent 构造无内容的抓取结果
func Absent(url string, statusCode int, reason string) FetchResult {
	return FetchResult{
		URL:        url,
		StatusCode: statusCode,
		Reason:     reason,
	}
}

// Found 是否取得内容
func (r FetchResult) Found() bool {
	return r.found
}

// PageFetcher 页面抓取器接口
type PageFetcher interface {
	// Fetch 对URL发起一次GET请求
	// 任何传输错误、超时、非200状态或空响应体都返回Absent,不返回error,调用方不应重试
	Fetch(ctx context.Context, url string) FetchResult
}

// ArtifactSink 文本持久化接口
type ArtifactSink interface {
	// Persist 将清洗后的文本写入以identifier命名的文件,覆盖同名文件
	// 返回写入路径;错误视为致命错误
	Persist(identifier string, text string) (string, error)
}
