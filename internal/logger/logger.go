// 包 logger：进程级日志器的初始化与获取；级别与格式由环境变量决定
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// 进程级默认日志器：优化器、空域索引、DID 解决器共用同一实例
var defaultLogger *slog.Logger

// Setup：初始化默认日志器（LOG_LEVEL / LOG_FORMAT）
// 背景：航线优化与空域查询分散在多个包，配置集中一处避免输出风格漂移
// 约束：输出固定到标准错误；文件落盘与外部聚合不在此层处理
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
