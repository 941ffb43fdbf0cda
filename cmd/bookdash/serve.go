package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/pkg/tracing"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runServe(opts.cfg, opts.log)
		},
	}
}

// runServe 启动HTTP服务，SIGINT/SIGTERM时优雅关闭
func runServe(cfg *config.Config, log *zap.Logger) error {
	// 步骤1: 链路追踪（关闭时只设置Propagator）
	shutdownTracing, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}()

	// 步骤2: 依赖注入
	engine, cleanup, err := InitializeServer(cfg, log)
	if err != nil {
		return fmt.Errorf("初始化服务失败: %w", err)
	}
	defer cleanup()

	// 步骤3: 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 步骤4: 启动HTTP服务器（goroutine）
	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动成功",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("remote", cfg.Remote.CollectionURL()),
			zap.String("cache", cfg.Cache.Driver),
			zap.Bool("mq", cfg.MQ.Enabled),
			zap.Bool("tracing", cfg.Tracing.Enabled))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 步骤5: 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP服务器启动失败: %w", err)
	case sig := <-quit:
		log.Info("正在优雅关闭服务", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器强制关闭: %w", err)
	}

	log.Info("HTTP服务器已关闭")
	return nil
}
