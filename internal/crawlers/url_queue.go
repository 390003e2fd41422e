package crawlers

import (
	"sort"
	"sync"

	"github.com/RecoveryAshes/TextCrawl/internal/models"
)

// URLQueue Frontier与已访问集合
// 职责:
//   - 按FIFO顺序保存待处理节点,入队时不去重(同一URL可多次排队)
//   - 维护本次运行的已访问URL集合,去重在出队后由驱动循环判断
//
// 驱动循环是唯一的写入者,锁只为进度监控的并发读取服务
type URLQueue struct {
	// 待处理节点
	pending []models.CrawlNode

	// 已访问URL集合(区分大小写,不做规范化)
	visited map[string]bool

	mu sync.RWMutex
}

// NewURLQueue 创建空队列
func NewURLQueue() *URLQueue {
	return &URLQueue{
		pending: make([]models.CrawlNode, 0),
		visited: make(map[string]bool),
	}
}

// Push 将节点追加到队尾
func (q *URLQueue) Push(nodes ...models.CrawlNode) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, nodes...)
}

// Pop 取出队首节点, 队列为空时返回false
func (q *URLQueue) Pop() (models.CrawlNode, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return models.CrawlNode{}, false
	}
	node := q.pending[0]
	q.pending[0] = models.CrawlNode{}
	q.pending = q.pending[1:]
	return node, true
}

// MarkVisited 标记URL为已访问
func (q *URLQueue) MarkVisited(urlStr string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.visited[urlStr] = true
}

// IsVisited 检查URL是否已访问
func (q *URLQueue) IsVisited(urlStr string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.visited[urlStr]
}

// PendingCount 待处理节点数量
func (q *URLQueue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}

// VisitedCount 已访问URL数量
func (q *URLQueue) VisitedCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.visited)
}

// Visited 已访问URL的排序快照
func (q *URLQueue) Visited() []string {
	q.mu.RLock()
	defer q.mu.RUnlock()

	urls := make([]string, 0, len(q.visited))
	for u := range q.visited {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
