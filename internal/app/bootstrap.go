package app

import (
	"context"
	"errors"
	"time"

	"github.com/parcelkeep/internal/cache"
	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/provider"
	"github.com/parcelkeep/internal/router"
	"github.com/parcelkeep/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	return buildRunner(cfg, mode, container)
}

func buildRunner(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	// 连接资源最先注册，逆序停止时最后关闭
	services := []Service{newResourceCloser(container)}

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// 初始化 Worker 服务；队列未启用时状态流转同步写入，all 模式跳过 worker
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if opts.ShutdownTimeout <= 0 && opts.Config.Server.ShutdownTimeoutSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(opts.Config.Server.ShutdownTimeoutSeconds) * time.Second
	}
	opts = normalizeOptions(opts)

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

// resourceCloser 在停止阶段释放队列客户端与 Redis 连接
type resourceCloser struct {
	container *provider.Container
	done      chan struct{}
}

func newResourceCloser(container *provider.Container) *resourceCloser {
	return &resourceCloser{container: container, done: make(chan struct{})}
}

func (r *resourceCloser) Name() string {
	return "resources"
}

func (r *resourceCloser) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-r.done:
	}
	return nil
}

func (r *resourceCloser) Stop(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	default:
		close(r.done)
	}
	var errs []error
	if r.container != nil && r.container.QueueClient != nil {
		if err := r.container.QueueClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
