package crawlers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 只匹配以 http:// 或 https:// 开头的href, 相对链接不跟随
var absoluteHrefRegex = regexp.MustCompile(`href=["'](https?://[^"']+)`)

// URLExtractor 链接提取器
// 职责: 从页面中提取绝对链接,按首次出现顺序去重后取中间一段
type URLExtractor struct {
	// 每个页面最多返回的链接数
	linkLimit int
}

// NewURLExtractor 创建链接提取器
func NewURLExtractor(linkLimit int) *URLExtractor {
	if linkLimit < 1 {
		linkLimit = 1
	}
	return &URLExtractor{linkLimit: linkLimit}
}

// Limit 每页链接上限
func (e *URLExtractor) Limit() int {
	return e.linkLimit
}

// ExtractLinks 从原始HTML提取最多linkLimit个链接
// 取中间一段: offset = len/2, 返回 links[offset : offset+limit]
func (e *URLExtractor) ExtractLinks(rawHTML string, baseURL string) []string {
	return MiddleSlice(UniqueLinks(rawHTML, baseURL), e.linkLimit)
}

// UniqueLinks 提取并按首次出现顺序去重
func UniqueLinks(rawHTML string, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		utils.Debugf("解析baseURL失败 [%s]: %v", baseURL, err)
		base = nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	for _, match := range absoluteHrefRegex.FindAllStringSubmatch(rawHTML, -1) {
		link := resolveLink(base, match[1])
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	return links
}

// resolveLink 绝对URL原样返回,否则相对base解析
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// MiddleSlice 返回 links[len/2 : len/2+limit], 越界时截断, 不补齐
func MiddleSlice(links []string, limit int) []string {
	if limit <= 0 || len(links) == 0 {
		return []string{}
	}
	offset := len(links) / 2
	end := offset + limit
	if end > len(links) {
		end = len(links)
	}
	result := make([]string, end-offset)
	copy(result, links[offset:end])
	return result
}

// ExtractTitle 读取页面<title>文本,没有时返回空字符串
func ExtractTitle(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inTitle = atom.Lookup(name) == atom.Title
		case html.EndTagToken:
			inTitle = false
		case html.TextToken:
			if inTitle {
				return strings.Join(strings.Fields(string(tokenizer.Text())), " ")
			}
		}
	}
}
