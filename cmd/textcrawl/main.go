package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/core"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证头部配置

	// 爬取参数
	seedURLs     []string
	urlFile      string
	depth        int
	linkLimit    int
	fetchTimeout time.Duration
	delay        time.Duration
	outputDir    string
	showProgress bool
	writeReport  bool
)

// appConfig 在 PersistentPreRunE 中加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "textcrawl",
	Short: "广度优先网页文本爬取工具",
	Long: `TextCrawl - 广度优先网页文本爬取工具

从种子URL出发按广度优先顺序抓取页面, 清洗为纯文本后按层级标识符保存:
  • 种子页面保存为 url1.txt, url2.txt ...
  • 每个页面取中间一段绝对链接作为子节点 (url11, url12 ...)
  • 已访问URL不会重复抓取
  • 每次抓取后固定等待, 避免给目标站点造成压力
  • 自定义HTTP请求头

示例:
  textcrawl -u https://example.com -d 1
  textcrawl -u https://a.example -u https://b.example -l 3 --delay 2s
  textcrawl -f urls.txt -o data --progress

  # 通过命令行参数设置头部
  textcrawl -u https://example.com -H "User-Agent: MyBot/1.0" -H "Authorization: Bearer token"

  # 验证头部配置
  textcrawl --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = config

		// 日志级别需在初始化日志前覆盖, 其余参数在 RunE 中覆盖
		config.ApplyOverrides(core.Overrides{LogLevel: logLevelOverride()})

		if err := utils.InitLogger(config.LogConfig()); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl+C 取消context, 爬取器在节点之间或等待期间停止并写出报告
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		headerManager, err := core.NewHeaderManager(appConfig.HeadersFile, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		if validateConfig {
			return runValidateConfig(headerManager)
		}

		if err := ValidateFlags(cmd); err != nil {
			return err
		}

		seeds, err := CollectSeeds(seedURLs, urlFile)
		if err != nil {
			return err
		}

		// 没有提供任何种子时显示帮助信息
		if len(seeds) == 0 && len(appConfig.Crawl.SeedURLs) == 0 {
			return cmd.Help()
		}

		appConfig.ApplyOverrides(buildOverrides(cmd, seeds))
		if err := appConfig.Validate(); err != nil {
			return fmt.Errorf("配置无效: %w", err)
		}

		// 提前加载头部, 配置错误时不发起任何请求
		if _, err := headerManager.GetHeaders(); err != nil {
			return fmt.Errorf("HTTP头部配置无效: %w", err)
		}
		utils.Debugf("HTTP头部: %s", headerManager.SafeString())

		var reporter *utils.Reporter
		if appConfig.Output.ReportEnabled {
			reporter = utils.NewReporter(appConfig.Output.ReportDir)
		}

		crawler, err := core.NewCrawler(appConfig.Crawl, core.CrawlerOptions{
			OutputDir:      appConfig.Output.Directory,
			HeaderProvider: headerManager,
			Reporter:       reporter,
			ShowProgress:   appConfig.Output.ShowProgress,
			ProgressWriter: os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("创建爬取器失败: %w", err)
		}

		report, runErr := crawler.Run(ctx)
		if report != nil {
			printSummary(report)
		}

		var persistErr *core.PersistError
		if errors.As(runErr, &persistErr) {
			return fmt.Errorf("爬取终止: %w", runErr)
		}
		if runErr != nil {
			return fmt.Errorf("爬取失败: %w", runErr)
		}

		if report != nil && report.Interrupted {
			utils.Warn("⏹️  爬取已中断")
			return nil
		}
		utils.Info("✨ 爬取任务完成!")
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "显示上一次运行的爬取统计",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := utils.NewReporter(appConfig.Output.ReportDir).LoadReport()
		if err != nil {
			return err
		}

		fmt.Printf("运行ID: %s\n", report.RunID)
		fmt.Printf("开始时间: %s\n", report.StartTime.Format(time.RFC3339))
		if report.Interrupted {
			fmt.Println("⏹️  该次运行被中断")
		}
		printSummary(report)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("TextCrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// logLevelOverride --log-level 优先, 其次 -v 使用debug级别
func logLevelOverride() *string {
	switch {
	case logLevel != "":
		return &logLevel
	case verbose:
		level := "debug"
		return &level
	default:
		return nil
	}
}

// buildOverrides 只收集命令行显式设置的参数
func buildOverrides(cmd *cobra.Command, seeds []string) core.Overrides {
	overrides := core.Overrides{SeedURLs: seeds}
	flags := cmd.Flags()

	if flags.Changed("depth") {
		overrides.MaxDepth = &depth
	}
	if flags.Changed("links") {
		overrides.LinkLimit = &linkLimit
	}
	if flags.Changed("timeout") {
		overrides.FetchTimeout = &fetchTimeout
	}
	if flags.Changed("delay") {
		overrides.RateLimitDelay = &delay
	}
	if flags.Changed("output") {
		overrides.OutputDir = &outputDir
	}
	if flags.Changed("progress") {
		overrides.ShowProgress = &showProgress
	}
	if flags.Changed("report") {
		overrides.ReportEnabled = &writeReport
	}
	return overrides
}

func printSummary(report *models.CrawlReport) {
	stats := report.Stats
	fmt.Println("\n==================================================")
	fmt.Println("📊 爬取统计")
	fmt.Println("==================================================")
	fmt.Printf("✅ 保存文本: %d\n", stats.Persisted)
	fmt.Printf("🔍 抓取次数: %d\n", stats.Fetched)
	fmt.Printf("❌ 无内容丢弃: %d\n", stats.Discarded)
	fmt.Printf("⏭️  重复跳过: %d\n", stats.SkippedDuplicate)
	fmt.Printf("⏭️  超深度跳过: %d\n", stats.SkippedDepth)
	if stats.IdentifierCollisions > 0 {
		fmt.Printf("⚠️  标识符冲突: %d\n", stats.IdentifierCollisions)
	}
	fmt.Printf("📦 总大小: %.2f KB\n", float64(stats.TotalBytes)/1024)
	fmt.Printf("⏱️  总耗时: %.2f秒\n", stats.Duration)
	fmt.Printf("📁 输出目录: %s\n", report.OutputDir)
	fmt.Println("==================================================")
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证头部配置文件并输出有效头部")

	// 爬取参数
	rootCmd.Flags().StringArrayVarP(&seedURLs, "url", "u", []string{}, "种子URL,可多次指定(顺序决定 url1, url2 ... 编号)")
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含种子URL列表的文件路径")
	rootCmd.Flags().IntVarP(&depth, "depth", "d", 0, "最大爬取深度 (0 只抓取种子)")
	rootCmd.Flags().IntVarP(&linkLimit, "links", "l", models.DefaultLinkLimit, "每个页面提取的链接数")
	rootCmd.Flags().DurationVar(&fetchTimeout, "timeout", models.DefaultFetchTimeout, "HTTP请求超时")
	rootCmd.Flags().DurationVar(&delay, "delay", models.DefaultRateLimitDelay, "每次抓取后的等待时间")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", models.DefaultOutputDir, "文本输出目录")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "显示进度条")
	rootCmd.Flags().BoolVar(&writeReport, "report", true, "生成爬取报告")

	// 添加子命令
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
