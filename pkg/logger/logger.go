package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置（与config.LogConfig字段一一对应，避免pkg依赖internal）
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | 文件路径
	EnableCaller bool
}

// New 创建zap日志器
// 设计说明：
// 1. console格式便于本地开发，json格式便于日志采集
// 2. 时间统一使用ISO8601
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别: %w", err)
	}

	encoding := defaultString(cfg.Format, "console")
	if encoding != "console" && encoding != "json" {
		return nil, fmt.Errorf("不支持的日志格式: %s", encoding)
	}

	output := defaultString(cfg.Output, "stdout")

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: level > zapcore.DebugLevel,
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return log, nil
}

// Nop 测试和CLI静默场景使用
func Nop() *zap.Logger {
	return zap.NewNop()
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
