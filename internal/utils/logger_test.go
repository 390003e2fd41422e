package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLogger(t *testing.T) {
	tempDir := t.TempDir()

	config := LogConfig{
		Level:      "debug",
		LogDir:     tempDir,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
		Console:    io.Discard,
	}

	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	Info("测试信息日志")
	Warn("测试警告日志")
	Debug("测试调试日志")

	mainLogPath := filepath.Join(tempDir, mainLogName)
	if _, err := os.Stat(mainLogPath); os.IsNotExist(err) {
		t.Errorf("主日志文件未创建: %s", mainLogPath)
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()
	var console bytes.Buffer

	config := LogConfig{
		Level:   "info",
		LogDir:  tempDir,
		MaxSize: 10,
		Console: &console,
		NoColor: true,
	}

	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	Infof("格式化信息日志: %s", "可见")
	Debugf("格式化调试日志: %s", "不可见")

	out := console.String()
	if !strings.Contains(out, "可见") {
		t.Errorf("控制台缺少info日志: %q", out)
	}
	if strings.Contains(out, "不可见") {
		t.Errorf("info级别不应输出debug日志: %q", out)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, mainLogName))
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if len(content) == 0 {
		t.Error("日志文件为空")
	}
}

func TestErrorLogOnlyContainsErrors(t *testing.T) {
	tempDir := t.TempDir()

	config := DefaultLogConfig()
	config.LogDir = tempDir
	config.Compress = false
	config.Console = io.Discard

	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	Warn("只应出现在主日志")
	Errorf("应出现在错误日志: %d", 42)

	content, err := os.ReadFile(filepath.Join(tempDir, errorLogName))
	if err != nil {
		t.Fatalf("读取错误日志失败: %v", err)
	}
	if strings.Contains(string(content), "只应出现在主日志") {
		t.Error("错误日志不应包含warn级别日志")
	}
	if !strings.Contains(string(content), "应出现在错误日志") {
		t.Error("错误日志缺少error级别日志")
	}
}

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	if config.Level != "info" {
		t.Errorf("默认日志级别错误: 期望 'info', 得到 '%s'", config.Level)
	}

	if config.LogDir != "logs" {
		t.Errorf("默认日志目录错误: 期望 'logs', 得到 '%s'", config.LogDir)
	}

	if config.MaxSize != 10 || config.MaxBackups != 3 || config.MaxAge != 28 {
		t.Errorf("默认轮转配置错误: %+v", config)
	}

	if !config.Compress {
		t.Error("默认应该启用压缩")
	}
}
