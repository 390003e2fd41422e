package core

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/TextCrawl/internal/config"
	"github.com/RecoveryAshes/TextCrawl/internal/crawlers"
	"github.com/RecoveryAshes/TextCrawl/internal/models"
	"github.com/RecoveryAshes/TextCrawl/internal/utils"
)

// HeaderManager 管理抓取请求的HTTP头部
// 实现 models.HeaderProvider 接口, 优先级: 默认 < 配置文件 < 命令行
type HeaderManager struct {
	defaults http.Header
	config   http.Header
	cli      http.Header

	validator    *utils.HeaderValidator
	redactor     *utils.HeaderRedactor
	configLoader *config.HeaderConfigLoader

	// merged 首次成功加载并验证后缓存
	merged http.Header
	once   sync.Once
	err    error
}

// NewHeaderManager 创建头部管理器
// configFile为空时使用默认路径; cliHeaders格式为 "Name: Value"
func NewHeaderManager(configFile string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	return &HeaderManager{
		defaults:     http.Header{"User-Agent": []string{crawlers.DefaultUserAgent}},
		config:       make(http.Header),
		cli:          cli,
		validator:    utils.NewHeaderValidator(),
		redactor:     utils.NewHeaderRedactor(),
		configLoader: config.NewHeaderConfigLoader(configFile),
	}, nil
}

// LoadConfig 加载头部配置文件
func (hm *HeaderManager) LoadConfig() error {
	headerConfig, err := hm.configLoader.LoadConfig()
	if err != nil {
		utils.Errorf("加载HTTP头部配置失败: %v", err)
		return err
	}

	// viper返回小写键名, Set会规范化
	hm.config = make(http.Header)
	for name, value := range headerConfig.Headers {
		hm.config.Set(name, value)
	}

	if len(hm.config) > 0 {
		utils.Debugf("加载了%d个HTTP头部配置: %s", len(hm.config), hm.redactor.RedactToString(hm.config))
	}
	return nil
}

// Validate 依次验证默认、配置文件和命令行头部
func (hm *HeaderManager) Validate() error {
	for _, headers := range []http.Header{hm.defaults, hm.config, hm.cli} {
		if err := hm.validator.Validate(headers); err != nil {
			utils.Errorf("HTTP头部验证失败: %v", err)
			return err
		}
	}
	return nil
}

// GetMergedHeaders 按优先级合并头部
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)
	for _, layer := range []http.Header{hm.defaults, hm.config, hm.cli} {
		for name, values := range layer {
			result[name] = append([]string(nil), values...)
		}
	}
	return result
}

// SafeString 脱敏后的有效头部, 用于日志
func (hm *HeaderManager) SafeString() string {
	return hm.redactor.RedactToString(hm.GetMergedHeaders())
}

// GetHeaders 实现 HeaderProvider 接口
// 首次调用时加载并验证, 之后返回缓存的副本
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	hm.once.Do(func() {
		if err := hm.LoadConfig(); err != nil {
			hm.err = err
			return
		}
		if err := hm.Validate(); err != nil {
			hm.err = err
			return
		}
		hm.merged = hm.GetMergedHeaders()
	})

	if hm.err != nil {
		return nil, hm.err
	}
	return hm.merged.Clone(), nil
}
