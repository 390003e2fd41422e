package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/crawlers"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// ErrNoSeeds 没有任何种子URL
var ErrNoSeeds = errors.New("没有种子URL, 请通过 -u, -f 或配置文件 crawl.seed_urls 指定")

// errInterrupted 运行context被取消
var errInterrupted = errors.New("爬取被中断")

// CrawlerOptions 爬取器依赖
type CrawlerOptions struct {
	// Fetcher 页面抓取器, 为空时使用基于Colly的默认实现
	Fetcher models.PageFetcher

	// Sink 文本输出, 为空时写入 OutputDir
	Sink models.ArtifactSink

	// OutputDir 文本输出目录(仅用于默认Sink和报告)
	OutputDir string

	// HeaderProvider 默认抓取器使用的头部
	HeaderProvider models.HeaderProvider

	// Reporter 为空时不写报告
	Reporter *utils.Reporter

	// ShowProgress 显示进度条
	ShowProgress   bool
	ProgressWriter io.Writer
}

// Crawler 广度优先文本爬取器
// 驱动循环单线程顺序执行: 出队 → 去重/深度检查 → 抓取 → 清洗 → 保存 → 提取链接 → 入队 → 等待
type Crawler struct {
	config    models.CrawlConfig
	outputDir string

	fetcher   models.PageFetcher
	sink      models.ArtifactSink
	extractor *crawlers.URLExtractor
	queue     *crawlers.URLQueue
	reporter  *utils.Reporter

	showProgress   bool
	progressWriter io.Writer

	// sleep 限速等待, 测试中可替换
	sleep func(ctx context.Context, d time.Duration) error

	// 以下字段由驱动循环写入, 进度监控并发读取
	mu        sync.RWMutex
	stats     models.TaskStats
	artifacts []*models.TextArtifact
	discarded []models.DiscardedNode
	owners    map[string]string // identifier -> URL
}

// NewCrawler 创建爬取器
func NewCrawler(config models.CrawlConfig, opts CrawlerOptions) (*Crawler, error) {
	if len(config.SeedURLs) == 0 {
		return nil, ErrNoSeeds
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("爬取配置无效: %w", err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = models.DefaultOutputDir
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = crawlers.NewPageFetcher(crawlers.FetcherConfig{
			Timeout:            config.FetchTimeout,
			MaxBodySize:        config.MaxBodySize,
			InsecureSkipVerify: config.InsecureSkipVerify,
		}, opts.HeaderProvider)
	}

	sink := opts.Sink
	if sink == nil {
		sink = NewTextSink(outputDir)
	}

	return &Crawler{
		config:         config,
		outputDir:      outputDir,
		fetcher:        fetcher,
		sink:           sink,
		extractor:      crawlers.NewURLExtractor(config.LinkLimit),
		queue:          crawlers.NewURLQueue(),
		reporter:       opts.Reporter,
		showProgress:   opts.ShowProgress,
		progressWriter: opts.ProgressWriter,
		sleep:          sleepContext,
		owners:         make(map[string]string),
	}, nil
}

// Run 执行爬取直到Frontier为空或ctx被取消
// 保存失败返回 *PersistError; 被取消时返回已完成部分的报告和nil错误
func (c *Crawler) Run(ctx context.Context) (*models.CrawlReport, error) {
	startTime := time.Now()

	utils.Infof("🚀 开始爬取任务")
	utils.Infof("种子URL: %d 个", len(c.config.SeedURLs))
	utils.Infof("最大深度: %d, 每页链接数: %d", c.config.MaxDepth, c.extractor.Limit())
	utils.Infof("请求超时: %v, 抓取间隔: %v", c.config.FetchTimeout, c.config.RateLimitDelay)
	utils.Infof("输出目录: %s", c.outputDir)
	for _, warning := range c.config.CollisionWarnings() {
		utils.Warnf("⚠️  %s", warning)
	}

	c.queue.Push(models.SeedNodes(c.config.SeedURLs)...)

	stopProgress := c.startProgressMonitor()
	bar := c.newProgressBar()

	interrupted := false
	var runErr error

	for {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		node, ok := c.queue.Pop()
		if !ok {
			break
		}

		state, err := c.processNode(ctx, node)
		if errors.Is(err, errInterrupted) {
			interrupted = true
			break
		}
		if err != nil {
			runErr = err
			break
		}

		if state == models.NodePersisted && bar != nil {
			_ = bar.Add(1)
		}

		// 只有发生过抓取的节点(保存或丢弃)才等待; 跳过的节点直接处理下一个
		// 队列已空时不再等待, 最后一次等待不影响任何输出
		if state.Fetched() && c.queue.PendingCount() > 0 {
			if err := c.sleep(ctx, c.config.RateLimitDelay); err != nil {
				interrupted = true
				break
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	stopProgress()

	report := c.buildReport(startTime, interrupted)

	if interrupted {
		utils.Warnf("⏹️  爬取被中断, 剩余 %d 个待处理节点", c.queue.PendingCount())
	}
	if runErr != nil {
		utils.Errorf("❌ 爬取终止: %v", runErr)
	} else {
		utils.Infof("✅ 爬取任务完成")
	}
	utils.Infof("保存文本: %d, 丢弃: %d, 跳过: %d", report.Stats.Persisted, report.Stats.Discarded,
		report.Stats.SkippedDuplicate+report.Stats.SkippedDepth)
	utils.Infof("总耗时: %.2f秒", report.Duration)

	if c.reporter != nil {
		if err := c.reporter.GenerateReport(report); err != nil {
			utils.Warnf("生成报告失败: %v", err)
		}
	}

	return report, runErr
}

// processNode 处理一个出队节点, 返回节点终态
func (c *Crawler) processNode(ctx context.Context, node models.CrawlNode) (models.NodeState, error) {
	c.update(func(s *models.TaskStats) { s.Dequeued++ })

	if c.queue.IsVisited(node.URL) {
		utils.Debugf("跳过已访问URL: %s (%s)", node.URL, node.Identifier)
		c.update(func(s *models.TaskStats) { s.SkippedDuplicate++ })
		return models.NodeSkippedDuplicate, nil
	}
	if node.Depth > c.config.MaxDepth {
		utils.Debugf("跳过超深度URL: %s (深度=%d, 限制=%d)", node.URL, node.Depth, c.config.MaxDepth)
		c.update(func(s *models.TaskStats) { s.SkippedDepth++ })
		return models.NodeSkippedDepth, nil
	}

	utils.Infof("🔍 爬取: %s [%s, 深度=%d]", node.URL, node.Identifier, node.Depth)
	result := c.fetcher.Fetch(ctx, node.URL)
	if !result.Found() && ctx.Err() != nil {
		return models.NodeQueued, errInterrupted
	}
	c.update(func(s *models.TaskStats) { s.Fetched++ })

	if !result.Found() {
		utils.Warnf("⚠️  无内容, 丢弃: %s [%s] (%s, 状态码=%d)", node.URL, node.Identifier, result.Reason, result.StatusCode)
		c.mu.Lock()
		c.stats.Discarded++
		c.discarded = append(c.discarded, models.DiscardedNode{
			Identifier: node.Identifier,
			URL:        node.URL,
			Depth:      node.Depth,
			StatusCode: result.StatusCode,
			Reason:     result.Reason,
		})
		c.mu.Unlock()
		return models.NodeDiscarded, nil
	}

	text := crawlers.CleanText(result.Content)
	path, err := c.sink.Persist(node.Identifier, text)
	if err != nil {
		return models.NodeQueued, &PersistError{Identifier: node.Identifier, URL: node.URL, Err: err}
	}
	c.queue.MarkVisited(node.URL)
	utils.Infof("💾 已保存: %s (%d 字节)", path, len(text))

	artifact := models.NewTextArtifact(node, path, crawlers.ExtractTitle(result.Content), text)

	if node.Depth < c.config.MaxDepth {
		children := node.Children(c.extractor.ExtractLinks(result.Content, node.URL))
		c.queue.Push(children...)
		artifact.LinksEnqueued = len(children)
		for _, child := range children {
			utils.Debugf("入队: %s [%s, 深度=%d]", child.URL, child.Identifier, child.Depth)
		}
	}

	c.mu.Lock()
	if owner, exists := c.owners[node.Identifier]; exists && owner != node.URL {
		utils.Warnf("⚠️  标识符冲突: %s 已属于 %s, 被 %s 覆盖", node.Identifier, owner, node.URL)
		c.stats.IdentifierCollisions++
	}
	c.owners[node.Identifier] = node.URL
	c.stats.Persisted++
	c.stats.TotalBytes += artifact.Size
	c.stats.LinksEnqueued += artifact.LinksEnqueued
	c.artifacts = append(c.artifacts, artifact)
	c.mu.Unlock()

	return models.NodePersisted, nil
}

func (c *Crawler) update(fn func(s *models.TaskStats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.stats)
}

// Stats 当前统计快照
func (c *Crawler) Stats() models.TaskStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Queue 爬取使用的Frontier
func (c *Crawler) Queue() *crawlers.URLQueue {
	return c.queue
}

func (c *Crawler) buildReport(startTime time.Time, interrupted bool) *models.CrawlReport {
	endTime := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Duration = endTime.Sub(startTime).Seconds()

	return &models.CrawlReport{
		RunID:       models.NewRunID(),
		SeedURLs:    append([]string(nil), c.config.SeedURLs...),
		StartTime:   startTime,
		EndTime:     endTime,
		Duration:    c.stats.Duration,
		Interrupted: interrupted,
		Stats:       c.stats,
		Artifacts:   append([]*models.TextArtifact(nil), c.artifacts...),
		Discarded:   append([]models.DiscardedNode(nil), c.discarded...),
		Visited:     c.queue.Visited(),
		OutputDir:   c.outputDir,
		Config:      c.config,
	}
}

// startProgressMonitor 按 ProgressInterval 周期输出进度和系统资源
// 返回停止函数
func (c *Crawler) startProgressMonitor() func() {
	interval := c.config.ProgressInterval
	if interval <= 0 {
		return func() {}
	}

	monitor := crawlers.NewResourceMonitor()
	monitor.StartMonitoring(interval)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				stats := c.Stats()
				res := monitor.Snapshot()
				utils.Infof("📊 进度: 待处理 %d, 已访问 %d, 已保存 %d, 丢弃 %d, 跳过 %d | 内存 %.1f%% CPU %.1f%%",
					c.queue.PendingCount(), c.queue.VisitedCount(), stats.Persisted, stats.Discarded,
					stats.SkippedDuplicate+stats.SkippedDepth, res.UsedPercent, res.CPUPercent)
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		monitor.StopMonitoring()
	}
}

func (c *Crawler) newProgressBar() *progressbar.ProgressBar {
	if !c.showProgress {
		return nil
	}
	return utils.NewProgressBar(-1, "📄 已保存", c.progressWriter)
}

// sleepContext 等待d或ctx取消
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
