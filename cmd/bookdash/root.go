package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/pkg/logger"
)

// rootOptions 所有子命令共用的配置和日志
type rootOptions struct {
	configFile string
	envFile    string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "bookdash",
		Short:        "Book dashboard over a remote REST collection",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd.Name() == "serve")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default ./config/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env file (default ./.env if present)")

	cmd.AddCommand(
		newServeCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newEventsCommand(opts),
	)
	return cmd
}

// init 加载配置并创建日志器
// 非serve命令的日志写到stderr，stdout只留给表格输出
func (o *rootOptions) init(server bool) error {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: o.configFile,
		EnvFile:    o.envFile,
	})
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logCfg := cfg.Log
	if !server && (logCfg.Output == "" || logCfg.Output == "stdout") {
		logCfg.Output = "stderr"
	}

	log, err := logger.New(logger.Config{
		Level:        logCfg.Level,
		Format:       logCfg.Format,
		Output:       logCfg.Output,
		EnableCaller: logCfg.EnableCaller,
	})
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.log = log
	return nil
}
