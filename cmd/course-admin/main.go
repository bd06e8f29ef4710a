// Package main course-admin 命令行入口
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-course-admin/pkg/config"
	"katydid-course-admin/pkg/logger"
)

// Version 构建时通过 ldflags 注入
var Version = "dev"

var (
	cfgFile  string
	logLevel string

	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "course-admin",
	Short: "Course catalog form validation and save orchestration",
	Long: `course-admin validates course catalog forms tab by tab, coerces form
values to the types the course API expects and saves a course by fanning the
changes out to the course, settings, pricing and linking endpoints.

Configuration is read from --config (YAML) and COURSEADMIN_* environment
variables, e.g. COURSEADMIN_API_BASE_URL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		log, closeLog, err = logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// flushLogger 命令结束（包括出错）时刷新并关闭日志文件
func flushLogger() {
	if closeLog == nil {
		return
	}
	if err := closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: flushing log: %v\n", err)
	}
	closeLog = nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	rootCmd.Version = Version
	cobra.OnFinalize(flushLogger)
}

// exitCode 错误到退出码的映射
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, errInvalidForm), errors.Is(err, errMalformedForm):
		return ExitDataError
	default:
		return ExitError
	}
}
