package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/config"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀, 例如 TEXTCRAWL_CRAWL_MAX_DEPTH
const EnvPrefix = "TEXTCRAWL"

// Config 应用程序配置
type Config struct {
	Crawl       models.CrawlConfig `mapstructure:"crawl"`
	Output      OutputConfig       `mapstructure:"output"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	HeadersFile string             `mapstructure:"headers_file"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Directory     string `mapstructure:"directory"`      // 文本输出目录
	ReportEnabled bool   `mapstructure:"report_enabled"` // 是否生成运行报告
	ReportDir     string `mapstructure:"report_dir"`     // 报告目录
	ShowProgress  bool   `mapstructure:"show_progress"`  // 是否显示进度条
}

// Overrides 命令行覆盖项, nil 表示未在命令行设置
type Overrides struct {
	SeedURLs       []string
	MaxDepth       *int
	LinkLimit      *int
	FetchTimeout   *time.Duration
	RateLimitDelay *time.Duration
	OutputDir      *string
	ShowProgress   *bool
	ReportEnabled  *bool
	LogLevel       *string
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs/config.yaml, ./config.yaml, ~/.textcrawl/config.yaml,
// 都不存在时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".textcrawl"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.ConfigError{FilePath: configPath, Cause: fmt.Errorf("读取配置文件失败: %w", err)}
		}
	} else {
		utils.Debugf("使用配置文件: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: fmt.Errorf("解析配置文件失败: %w", err)}
	}

	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 爬取配置默认值
	v.SetDefault("crawl.seed_urls", []string{})
	v.SetDefault("crawl.max_depth", 0)
	v.SetDefault("crawl.link_limit", models.DefaultLinkLimit)
	v.SetDefault("crawl.fetch_timeout", models.DefaultFetchTimeout)
	v.SetDefault("crawl.rate_limit_delay", models.DefaultRateLimitDelay)
	v.SetDefault("crawl.max_body_size", models.DefaultMaxBodySize)
	v.SetDefault("crawl.progress_interval", time.Duration(0))
	v.SetDefault("crawl.insecure_skip_verify", false)

	// 输出配置默认值
	v.SetDefault("output.directory", models.DefaultOutputDir)
	v.SetDefault("output.report_enabled", true)
	v.SetDefault("output.report_dir", "reports")
	v.SetDefault("output.show_progress", false)

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	v.SetDefault("headers_file", config.DefaultHeadersFile)
}

// ApplyOverrides 命令行参数优先于配置文件
func (c *Config) ApplyOverrides(o Overrides) {
	// 命令行给出种子时整体替换配置文件中的种子
	if seeds := utils.MergeSeeds(o.SeedURLs); len(seeds) > 0 {
		c.Crawl.SeedURLs = seeds
	}
	if o.MaxDepth != nil {
		c.Crawl.MaxDepth = *o.MaxDepth
	}
	if o.LinkLimit != nil {
		c.Crawl.LinkLimit = *o.LinkLimit
	}
	if o.FetchTimeout != nil {
		c.Crawl.FetchTimeout = *o.FetchTimeout
	}
	if o.RateLimitDelay != nil {
		c.Crawl.RateLimitDelay = *o.RateLimitDelay
	}
	if o.OutputDir != nil {
		c.Output.Directory = *o.OutputDir
	}
	if o.ShowProgress != nil {
		c.Output.ShowProgress = *o.ShowProgress
	}
	if o.ReportEnabled != nil {
		c.Output.ReportEnabled = *o.ReportEnabled
	}
	if o.LogLevel != nil {
		c.Logging.Level = *o.LogLevel
	}
}

// Validate 验证完整配置
func (c *Config) Validate() error {
	if len(c.Crawl.SeedURLs) == 0 {
		return ErrNoSeeds
	}
	if err := c.Crawl.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	if c.Output.ReportEnabled && strings.TrimSpace(c.Output.ReportDir) == "" {
		return fmt.Errorf("启用报告时报告目录不能为空")
	}
	return nil
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
