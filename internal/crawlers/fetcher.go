package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent 未配置任何头部时使用的浏览器标识
const DefaultUserAgent = "Mozilla/5.0"

// 缺失原因
const (
	ReasonTimeout      = "timeout"
	ReasonCanceled     = "canceled"
	ReasonNetworkError = "network_error"
	ReasonHTTPStatus   = "http_status"
	ReasonNoResponse   = "no_response"
	ReasonEmptyBody    = "empty_body"
)

const bodyKey = "text_body"

// FetcherConfig 抓取器配置
type FetcherConfig struct {
	Timeout            time.Duration
	MaxBodySize        int
	InsecureSkipVerify bool
}

// PageFetcher 基于Colly的页面抓取器
// 每次Fetch只发起一次GET请求,不重试
type PageFetcher struct {
	collector      *colly.Collector
	headerProvider models.HeaderProvider
}

// NewPageFetcher 创建抓取器
func NewPageFetcher(config FetcherConfig, headerProvider models.HeaderProvider) *PageFetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = models.DefaultFetchTimeout
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.InsecureSkipVerify,
			},
		},
		Timeout: timeout,
	}

	// 去重由Frontier负责,Colly只负责一次请求
	c := colly.NewCollector(
		colly.UserAgent(DefaultUserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
	)
	if config.MaxBodySize > 0 {
		c.MaxBodySize = config.MaxBodySize
	}

	c.SetClient(httpClient)
	c.WithTransport(httpClient.Transport)
	c.SetRequestTimeout(timeout)

	if config.InsecureSkipVerify {
		utils.Debugf("抓取器: TLS证书验证已禁用")
	}
	utils.Debugf("抓取器: 超时 %v, 响应体上限 %d 字节", timeout, c.MaxBodySize)

	return &PageFetcher{
		collector:      c,
		headerProvider: headerProvider,
	}
}

// Fetch 实现 models.PageFetcher
// 仅当状态码为200且响应体非空时返回Fetched,其余情况一律Absent
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) models.FetchResult {
	if err := ctx.Err(); err != nil {
		return models.Absent(rawURL, 0, ReasonCanceled)
	}

	headers := f.requestHeaders()

	c := f.collector.Clone()
	c.Context = ctx

	var statusCode int
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		if r.StatusCode != http.StatusOK {
			return
		}

		body := r.Body
		if encoding := r.Headers.Get("Content-Encoding"); encoding != "" {
			decompressed, err := decompressResponse(encoding, body)
			if err != nil {
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", rawURL, encoding, err)
			} else {
				body = decompressed
			}
		}
		r.Ctx.Put(bodyKey, string(body))
	})

	reqCtx := colly.NewContext()
	if err := c.Request(http.MethodGet, rawURL, nil, reqCtx, headers); err != nil {
		reason := classifyError(ctx, err)
		utils.Debugf("抓取失败 [%s]: %v (%s)", rawURL, err, reason)
		return models.Absent(rawURL, statusCode, reason)
	}

	switch {
	case statusCode == 0:
		return models.Absent(rawURL, 0, ReasonNoResponse)
	case statusCode != http.StatusOK:
		utils.Debugf("抓取无内容 [%s]: HTTP %d", rawURL, statusCode)
		return models.Absent(rawURL, statusCode, ReasonHTTPStatus)
	}

	body, _ := reqCtx.GetAny(bodyKey).(string)
	if body == "" {
		utils.Debugf("抓取无内容 [%s]: 响应体为空", rawURL)
		return models.Absent(rawURL, statusCode, ReasonEmptyBody)
	}
	return models.Fetched(rawURL, body, statusCode)
}

// requestHeaders 每次请求前向提供者获取头部
func (f *PageFetcher) requestHeaders() http.Header {
	headers := http.Header{}
	if f.headerProvider != nil {
		provided, err := f.headerProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
		} else if provided != nil {
			headers = provided.Clone()
		}
	}
	if headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", DefaultUserAgent)
	}
	return headers
}

func classifyError(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ReasonCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonNetworkError
}

// decompressResponse 根据Content-Encoding解压响应体
// Colly已处理标准gzip, 此处只在内容仍带gzip魔数时再解一次
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()
		return readAll(reader, "gzip")

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()
		return readAll(reader, "deflate")

	case "br":
		return readAll(brotli.NewReader(bytes.NewReader(body)), "brotli")

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}

func readAll(r io.Reader, name string) ([]byte, error) {
	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s读取失败: %w", name, err)
	}
	return decompressed, nil
}

var _ models.PageFetcher = (*PageFetcher)(nil)
