package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/api"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/config"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/logging"
)

// version 由 -ldflags "-X main.version=..." 注入
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := &serveOptions{}

	root := &cobra.Command{
		Use:   "findash",
		Short: "Financial dashboard for CSV / Excel sales data",
		Long: `findash turns an uploaded sales table (Sales, Profit, Units Sold,
Year, Segment, Product, Country) into KPIs, a yearly trend with
year-over-year change, a segment summary and top-N rankings.

Without a subcommand it starts the web dashboard.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serve)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "配置文件路径 (默认为可执行文件同目录的 config.toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "日志级别 (覆盖配置文件)")
	serve.bind(root)

	root.AddCommand(newServeCmd(opts), newReportCmd(opts))
	return root
}

// loadConfig 加载配置并初始化日志
func (o *rootOptions) loadConfig() (*config.AppConfig, config.LoadConfigInfo) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if o.configPath != "" {
		cfg, info, err = config.LoadConfigFrom(o.configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logging.Setup(cfg.Log.Level, cfg.Log.JSON)
	api.Version = version

	if err != nil {
		log.Warn().Err(err).Str("path", info.Path).Msg("加载配置失败，使用默认配置")
	}
	return cfg, info
}
