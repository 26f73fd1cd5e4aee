package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kunalpatil4054/gdp-dashboard/internal/server"
	"github.com/Kunalpatil4054/gdp-dashboard/internal/util"
)

type serveOptions struct {
	port      int
	devMode   bool
	dataDir   string
	noBrowser bool
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&o.devMode, "dev", false, "开发模式")
	cmd.Flags().StringVar(&o.dataDir, "dataDir", "", "数据目录 (覆盖配置文件)")
	cmd.Flags().BoolVar(&o.noBrowser, "no-browser", false, "不自动打开浏览器")
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, info := root.loadConfig()

	// 命令行参数覆盖配置
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	if opts.noBrowser {
		cfg.Server.OpenBrowser = false
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := util.LocalURL(cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Bool("history", cfg.Data.History).Msg("服务启动中")
		errCh <- srv.Run(addr)
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowser(url); err != nil {
			log.Warn().Err(err).Msgf("无法自动打开浏览器，请手动访问: %s", url)
		}
	} else {
		log.Info().Msgf("请访问 %s", url)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	case <-quit:
		log.Info().Msg("正在关闭服务...")
		return nil
	}
}
