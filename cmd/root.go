package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/config"
	"github.com/moyu-x/archyve/pkg/logger"
)

var (
	cfgFile  string
	logLevel string
	logFile  string

	// 命令操作的文件系统，测试中替换为内存文件系统
	appFs afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "archyve",
	Short: "基于内容的重复文件检测与整理工具",
	Long: `Archyve 是一个管理本地文件库的命令行工具。

主要功能:
- 递归遍历一个或多个根目录
- 按扩展名把文件归类为图片、音频、视频、文本
- 按内容哈希（xxhash/md5/sha256）查找重复文件
- 每组重复文件保留最早创建的一个，其余删除或移动
- 安全移动：从不覆盖已有文件，冲突时自动加序号`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute 由 main.main 调用
func Execute() {
	setupSignalHandler()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	file := cfg.Logging.File
	if cmd.Flags().Changed("log-file") {
		file = logFile
	}
	if err := logger.Init(level, file); err != nil {
		return err
	}

	logger.Get().Debug().Str("command", cmd.Name()).Msg("加载配置完成")
	return nil
}

func setupSignalHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Get().Warn().Msgf("收到信号 %v，退出", sig)
		os.Exit(130)
	}()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认查找 $HOME/.archyve/config.yaml）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "日志级别: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "同时写入的日志文件")
}
