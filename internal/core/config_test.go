package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RecoveryAshes/TextCrawl/internal/config"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, "# 空配置\n"))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Crawl.MaxDepth != 0 {
		t.Errorf("默认最大深度错误: %d", cfg.Crawl.MaxDepth)
	}
	if cfg.Crawl.LinkLimit != models.DefaultLinkLimit {
		t.Errorf("默认链接数错误: %d", cfg.Crawl.LinkLimit)
	}
	if cfg.Crawl.FetchTimeout != 5*time.Second || cfg.Crawl.RateLimitDelay != 5*time.Second {
		t.Errorf("默认超时/等待错误: %v / %v", cfg.Crawl.FetchTimeout, cfg.Crawl.RateLimitDelay)
	}
	if cfg.Output.Directory != "data" {
		t.Errorf("默认输出目录错误: %s", cfg.Output.Directory)
	}
	if !cfg.Output.ReportEnabled || cfg.Output.ReportDir != "reports" {
		t.Errorf("默认报告配置错误: %+v", cfg.Output)
	}
	if cfg.HeadersFile != config.DefaultHeadersFile {
		t.Errorf("默认头部配置路径错误: %s", cfg.HeadersFile)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Rotation.MaxSize != 10 {
		t.Errorf("默认日志配置错误: %+v", cfg.Logging)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfigFile(t, `
crawl:
  seed_urls:
    - https://a.example/
    - https://b.example/
  max_depth: 2
  link_limit: 3
  fetch_timeout: 3s
  rate_limit_delay: 500ms
output:
  directory: out
  report_enabled: false
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if len(cfg.Crawl.SeedURLs) != 2 || cfg.Crawl.SeedURLs[0] != "https://a.example/" {
		t.Errorf("种子URL错误: %v", cfg.Crawl.SeedURLs)
	}
	if cfg.Crawl.MaxDepth != 2 || cfg.Crawl.LinkLimit != 3 {
		t.Errorf("深度/链接数错误: %d / %d", cfg.Crawl.MaxDepth, cfg.Crawl.LinkLimit)
	}
	if cfg.Crawl.FetchTimeout != 3*time.Second || cfg.Crawl.RateLimitDelay != 500*time.Millisecond {
		t.Errorf("超时/等待错误: %v / %v", cfg.Crawl.FetchTimeout, cfg.Crawl.RateLimitDelay)
	}
	if cfg.Output.Directory != "out" || cfg.Output.ReportEnabled {
		t.Errorf("输出配置错误: %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("日志级别错误: %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TEXTCRAWL_CRAWL_MAX_DEPTH", "4")
	t.Setenv("TEXTCRAWL_OUTPUT_DIRECTORY", "env-out")

	cfg, err := LoadConfig(writeConfigFile(t, "crawl:\n  max_depth: 1\n"))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Crawl.MaxDepth != 4 {
		t.Errorf("环境变量应覆盖配置文件: 期望 4, 得到 %d", cfg.Crawl.MaxDepth)
	}
	if cfg.Output.Directory != "env-out" {
		t.Errorf("环境变量应覆盖默认值: 得到 %s", cfg.Output.Directory)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		var configErr *models.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("期望 ConfigError, 得到 %v", err)
		}
	})

	t.Run("YAML格式错误", func(t *testing.T) {
		_, err := LoadConfig(writeConfigFile(t, "crawl: [unclosed\n"))
		if err == nil {
			t.Error("期望返回解析错误")
		}
	})
}

func TestConfig_ApplyOverrides(t *testing.T) {
	depth := 3
	limit := 5
	timeout := time.Second
	outputDir := "cli-out"
	showProgress := true

	cfg := &Config{Crawl: models.DefaultCrawlConfig()}
	cfg.Crawl.SeedURLs = []string{"https://config.example/"}

	cfg.ApplyOverrides(Overrides{
		SeedURLs:     []string{" https://cli.example/ ", "", "https://cli.example/"},
		MaxDepth:     &depth,
		LinkLimit:    &limit,
		FetchTimeout: &timeout,
		OutputDir:    &outputDir,
		ShowProgress: &showProgress,
	})

	// 命令行种子整体替换, 重复项保留
	expectedSeeds := []string{"https://cli.example/", "https://cli.example/"}
	if len(cfg.Crawl.SeedURLs) != len(expectedSeeds) {
		t.Fatalf("种子URL错误: %v", cfg.Crawl.SeedURLs)
	}
	for i, seed := range expectedSeeds {
		if cfg.Crawl.SeedURLs[i] != seed {
			t.Errorf("第%d个种子: 期望 %s, 得到 %s", i+1, seed, cfg.Crawl.SeedURLs[i])
		}
	}

	if cfg.Crawl.MaxDepth != 3 || cfg.Crawl.LinkLimit != 5 || cfg.Crawl.FetchTimeout != time.Second {
		t.Errorf("爬取覆盖项错误: %+v", cfg.Crawl)
	}
	if cfg.Crawl.RateLimitDelay != models.DefaultRateLimitDelay {
		t.Errorf("未设置的覆盖项不应修改配置: %v", cfg.Crawl.RateLimitDelay)
	}
	if cfg.Output.Directory != "cli-out" || !cfg.Output.ShowProgress {
		t.Errorf("输出覆盖项错误: %+v", cfg.Output)
	}

	t.Run("日志级别覆盖", func(t *testing.T) {
		level := "debug"
		cfg := &Config{Logging: LoggingConfig{Level: "info"}}

		cfg.ApplyOverrides(Overrides{})
		if cfg.Logging.Level != "info" {
			t.Errorf("未设置时不应修改日志级别: %s", cfg.Logging.Level)
		}

		cfg.ApplyOverrides(Overrides{LogLevel: &level})
		if cfg.LogConfig().Level != "debug" {
			t.Errorf("期望日志级别 debug, 得到 %s", cfg.LogConfig().Level)
		}
	})

	t.Run("没有命令行种子时保留配置", func(t *testing.T) {
		cfg := &Config{Crawl: models.DefaultCrawlConfig()}
		cfg.Crawl.SeedURLs = []string{"https://config.example/"}
		cfg.ApplyOverrides(Overrides{})

		if len(cfg.Crawl.SeedURLs) != 1 || cfg.Crawl.SeedURLs[0] != "https://config.example/" {
			t.Errorf("配置种子不应被清空: %v", cfg.Crawl.SeedURLs)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			Crawl:  models.DefaultCrawlConfig(),
			Output: OutputConfig{Directory: "data", ReportEnabled: true, ReportDir: "reports"},
		}
		cfg.Crawl.SeedURLs = []string{"https://a.example/"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
		noSeeds bool
	}{
		{"有效配置", func(cfg *Config) {}, false, false},
		{"没有种子", func(cfg *Config) { cfg.Crawl.SeedURLs = nil }, true, true},
		{"种子协议错误", func(cfg *Config) { cfg.Crawl.SeedURLs = []string{"ftp://a.example/"} }, true, false},
		{"负深度", func(cfg *Config) { cfg.Crawl.MaxDepth = -1 }, true, false},
		{"链接数为0", func(cfg *Config) { cfg.Crawl.LinkLimit = 0 }, true, false},
		{"超时为0", func(cfg *Config) { cfg.Crawl.FetchTimeout = 0 }, true, false},
		{"输出目录为空", func(cfg *Config) { cfg.Output.Directory = " " }, true, false},
		{"报告目录为空", func(cfg *Config) { cfg.Output.ReportDir = "" }, true, false},
		{"关闭报告时允许空目录", func(cfg *Config) {
			cfg.Output.ReportEnabled = false
			cfg.Output.ReportDir = ""
		}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("期望错误=%v, 得到 %v", tt.wantErr, err)
			}
			if tt.noSeeds && !errors.Is(err, ErrNoSeeds) {
				t.Errorf("期望 ErrNoSeeds, 得到 %v", err)
			}
		})
	}
}

func TestConfig_LogConfig(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{
		Level:  "warn",
		LogDir: "custom-logs",
		Rotation: RotationConfig{
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   false,
		},
	}}

	logConfig := cfg.LogConfig()
	if logConfig.Level != "warn" || logConfig.LogDir != "custom-logs" {
		t.Errorf("日志配置错误: %+v", logConfig)
	}
	if logConfig.MaxSize != 20 || logConfig.MaxBackups != 5 || logConfig.MaxAge != 7 || logConfig.Compress {
		t.Errorf("轮转配置错误: %+v", logConfig)
	}
}
