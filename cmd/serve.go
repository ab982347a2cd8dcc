package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "github.com/shirry/webserver/api/v1"
	"github.com/shirry/webserver/internal/config"
	"github.com/shirry/webserver/internal/connection"
	"github.com/shirry/webserver/internal/handlers"
	"github.com/shirry/webserver/internal/metrics"
	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/internal/server"
	"github.com/shirry/webserver/internal/services"
	"github.com/shirry/webserver/internal/store"
	"github.com/shirry/webserver/pkg/scheduler"
)

const (
	metricsNamespace = "webserver"
	stopTimeout      = 10 * time.Second
)

func NewServeCommand() *cobra.Command {
	cfg, err := config.NewConfigurationWithDefaults()
	if err != nil {
		panic(err)
	}
	var configFile string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Accept TCP connections and dispatch them to the thread pool or the task supervisor",
		PreRunE: preRunE(&configFile),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Optional configuration file (yaml, json or toml)")
	registerFlags(cmd.Flags(), cfg)
	return cmd
}

func registerFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Server.Address, "server-address", cfg.Server.Address, "Address the TCP server listens on")
	flags.IntVar(&cfg.Server.Port, "server-port", cfg.Server.Port, "Port the TCP server listens on; an OS-assigned port is used if it is taken")
	flags.StringVar(&cfg.Server.PagesFolder, "server-pages-folder", cfg.Server.PagesFolder, "Folder holding index.html, sleep.html and 404.html")
	flags.DurationVar(&cfg.Server.SleepDelay, "server-sleep-delay", cfg.Server.SleepDelay, "Delay applied to GET /sleep")
	flags.IntVar(&cfg.Server.MaxConnections, "server-max-connections", cfg.Server.MaxConnections, "Shut down after this many connections (0 = never)")
	flags.IntVar(&cfg.Server.BindAttempts, "server-bind-attempts", cfg.Server.BindAttempts, "Bind attempts before falling back to an OS-assigned port")

	flags.StringVar(&cfg.Dispatcher.Mode, "dispatcher-mode", cfg.Dispatcher.Mode, "Dispatch mode: pool or async")
	flags.IntVar(&cfg.Dispatcher.Workers, "dispatcher-workers", cfg.Dispatcher.Workers, "Number of pool workers (pool mode)")
	flags.IntVar(&cfg.Dispatcher.QueueCapacity, "dispatcher-queue-capacity", cfg.Dispatcher.QueueCapacity, "Pool queue bound, Submit blocks when full (0 = unbounded)")
	flags.IntVar(&cfg.Dispatcher.MaxInFlight, "dispatcher-max-in-flight", cfg.Dispatcher.MaxInFlight, "Ceiling on running tasks in async mode (0 = unbounded)")

	flags.BoolVar(&cfg.Admin.Enabled, "admin-enabled", cfg.Admin.Enabled, "Serve the admin API")
	flags.StringVar(&cfg.Admin.Address, "admin-address", cfg.Admin.Address, "Address of the admin API")
	flags.IntVar(&cfg.Admin.Port, "admin-port", cfg.Admin.Port, "Port of the admin API")
	flags.StringVar(&cfg.Admin.ServerMode, "admin-server-mode", cfg.Admin.ServerMode, "Admin server mode: dev or prod")

	flags.BoolVar(&cfg.Store.Enabled, "store-enabled", cfg.Store.Enabled, "Record handled requests")
	flags.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "Request log database path (:memory: for in-process)")

	flags.BoolVar(&cfg.Auth.Enabled, "auth-enabled", cfg.Auth.Enabled, "Require a bearer JWT on the admin API")
	flags.StringVar(&cfg.Auth.Secret, "auth-secret", cfg.Auth.Secret, "HS256 secret used to verify admin tokens")

	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("serve")
	log.Infow("configuration loaded", "config", cfg.DebugMap())

	mode, err := models.ParseDispatchMode(cfg.Dispatcher.Mode)
	if err != nil {
		return err
	}

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewObserver(metricsNamespace, reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	var (
		recorder connection.Recorder = connection.NopRecorder{}
		st       *store.Store
	)
	if cfg.Store.Enabled {
		db, err := store.NewDB(cfg.Store.Path)
		if err != nil {
			return err
		}
		st = store.NewStore(db)
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate request log: %w", err)
		}
		recorder = connection.NewStoreRecorder(st.Requests())
	}

	dispatcher, observable, err := newDispatcher(cfg.Dispatcher, mode, observer)
	if err != nil {
		return err
	}
	if err := observer.Watch(metricsNamespace, observable); err != nil {
		dispatcher.Shutdown()
		return err
	}

	ln, err := server.Listen(ctx, cfg.Server.Address, cfg.Server.Port, cfg.Server.BindAttempts)
	if err != nil {
		dispatcher.Shutdown()
		return err
	}

	handler := connection.NewHandler(os.DirFS(cfg.Server.PagesFolder), mode,
		connection.WithRecorder(recorder),
		connection.WithSleepDelay(cfg.Server.SleepDelay),
	)
	srv := server.NewServer(ln, dispatcher, handler, server.WithMaxConnections(cfg.Server.MaxConnections))

	printBanner(cfg, mode, srv.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return srv.Run(runCtx)
	})

	if cfg.Admin.Enabled {
		var requestSrv *services.RequestService
		if st != nil {
			requestSrv = services.NewRequestService(st)
		}
		h := handlers.New(
			services.NewDispatcherService(mode, cfg.Dispatcher.Workers, cfg.Dispatcher.MaxInFlight, observable),
			requestSrv,
		)
		admin := server.NewAdminServer(cfg, reg, func(router *gin.RouterGroup) {
			v1.RegisterHandlers(router, h)
		})

		g.Go(func() error {
			return admin.Start(runCtx)
		})
		g.Go(func() error {
			<-runCtx.Done()
			stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
			defer cancelStop()
			return admin.Stop(stopCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutting down")
	return nil
}

// newDispatcher builds the dispatcher for mode. The second value is the
// instance that reports counters.
func newDispatcher(cfg config.Dispatcher, mode models.DispatchMode, observer scheduler.Observer) (scheduler.Dispatcher, scheduler.Observable, error) {
	switch mode {
	case models.DispatchModeAsync:
		supervisor := scheduler.NewTaskSupervisor(
			scheduler.WithName("task_supervisor"),
			scheduler.WithObserver(observer),
		)
		if cfg.MaxInFlight <= 0 {
			return scheduler.AsDispatcher(supervisor), supervisor, nil
		}
		limiter, err := scheduler.NewAdmissionLimiter(scheduler.AsDispatcher(supervisor), int64(cfg.MaxInFlight))
		if err != nil {
			supervisor.Shutdown()
			return nil, nil, err
		}
		return limiter, supervisor, nil
	default:
		pool, err := scheduler.NewThreadPool(cfg.Workers,
			scheduler.WithName("thread_pool"),
			scheduler.WithQueueCapacity(cfg.QueueCapacity),
			scheduler.WithObserver(observer),
		)
		if err != nil {
			return nil, nil, err
		}
		return pool, pool, nil
	}
}

func printBanner(cfg *config.Configuration, mode models.DispatchMode, addr string) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgHiBlack)

	_, _ = title.Fprintln(os.Stderr, "webserver")
	_, _ = label.Fprint(os.Stderr, "  listening  ")
	fmt.Fprintf(os.Stderr, "http://%s\n", addr)
	_, _ = label.Fprint(os.Stderr, "  dispatcher ")
	if mode == models.DispatchModePool {
		fmt.Fprintf(os.Stderr, "%s (%d workers)\n", mode, cfg.Dispatcher.Workers)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", mode)
	}
	if cfg.Admin.Enabled {
		_, _ = label.Fprint(os.Stderr, "  admin      ")
		fmt.Fprintf(os.Stderr, "http://%s:%d/api/v1\n", cfg.Admin.Address, cfg.Admin.Port)
	}
}
