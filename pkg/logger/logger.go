// Package logger 基于 zap 的日志初始化，可选输出到按大小滚动的文件
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	// Level debug / info / warn / error
	Level string `mapstructure:"level"`
	// Format console / json
	Format string `mapstructure:"format"`
	// File 日志文件路径，为空时只输出到标准错误
	File string `mapstructure:"file"`
	// MaxSize 单个文件最大尺寸（MB）
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups 保留的旧文件数量
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAge 旧文件保留天数
	MaxAge   int  `mapstructure:"max_age"`
	Compress bool `mapstructure:"compress"`
}

// New 按配置创建 logger，文件输出总是 JSON 格式
// 返回的 closer 刷新缓冲并关闭日志文件，进程退出前调用
func New(cfg Config) (*zap.Logger, func() error, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEncoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		consoleEncoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		devCfg := encCfg
		devCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(consoleSink{os.Stderr}), level),
	}
	var file *lumberjack.Logger
	if cfg.File != "" {
		file = newRollingFile(cfg)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(file),
			level,
		))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closer := func() error {
		err := log.Sync()
		if file != nil {
			err = errors.Join(err, file.Close())
		}
		return err
	}
	return log, closer, nil
}

// consoleSink 终端输出，stderr 是管道或终端时 fsync 返回的 EINVAL/ENOTTY 不算错误
type consoleSink struct {
	zapcore.WriteSyncer
}

func (s consoleSink) Sync() error {
	err := s.WriteSyncer.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// Nop 不输出任何内容的 logger
func Nop() *zap.Logger {
	return zap.NewNop()
}

func newRollingFile(cfg Config) *lumberjack.Logger {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 100
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
