package models

import "strconv"

// seedPrefix 种子标识符前缀
const seedPrefix = "url"

// CrawlNode 队列中的一个爬取单元
// 用途:
//   - 在Frontier中按FIFO顺序传递URL、标识符和深度
//   - 标识符同时作为输出文件名(<Identifier>.txt)
type CrawlNode struct {
	// URL 完整的绝对URL,作为去重键(区分大小写,不做规范化)
	URL string `json:"url"`

	// Identifier 层级标识符
	//   - 种子: url{N}
	//   - 子节点: 父标识符 + 在父页面提取结果中的序号(从1开始)
	//   - 例如 url1 的第2个子链接为 url12, 其第1个子链接为 url121
	Identifier string `json:"identifier"`

	// Depth 深度层级
	//   - 0: 种子URL
	//   - 1: 从种子页面提取的链接
	//   - 以此类推...
	Depth int `json:"depth"`
}

// Filename 节点对应的文本文件名
func (n CrawlNode) Filename() string {
	return n.Identifier + ".txt"
}

// SeedIdentifier 生成种子标识符, rank为种子在列表中的位置(从1开始)
func SeedIdentifier(rank int) string {
	return seedPrefix + strconv.Itoa(rank)
}

// ChildIdentifier 生成子节点标识符
// rank为链接在父页面提取结果中的位置(从1开始),与全局计数无关
func ChildIdentifier(parent string, rank int) string {
	return parent + strconv.Itoa(rank)
}

// SeedNodes 按种子顺序生成深度为0的初始节点
func SeedNodes(seeds []string) []CrawlNode {
	nodes := make([]CrawlNode, 0, len(seeds))
	for i, seed := range seeds {
		nodes = append(nodes, CrawlNode{
			URL:        seed,
			Identifier: SeedIdentifier(i + 1),
			Depth:      0,
		})
	}
	return nodes
}

// Children 为提取到的链接生成子节点,序号按links中的位置编号
func (n CrawlNode) Children(links []string) []CrawlNode {
	children := make([]CrawlNode, 0, len(links))
	for i, link := range links {
		children = append(children, CrawlNode{
			URL:        link,
			Identifier: ChildIdentifier(n.Identifier, i+1),
			Depth:      n.Depth + 1,
		})
	}
	return children
}
