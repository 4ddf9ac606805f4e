package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/relaychat-go/internal/core/service"
	"github.com/yndnr/relaychat-go/internal/infra/buildinfo"
	"github.com/yndnr/relaychat-go/internal/infra/confloader"
	"github.com/yndnr/relaychat-go/internal/infra/shutdown"
	"github.com/yndnr/relaychat-go/internal/server/chatserver"
	"github.com/yndnr/relaychat-go/internal/server/config"
	"github.com/yndnr/relaychat-go/internal/server/console"
	"github.com/yndnr/relaychat-go/internal/server/httpserver"
	"github.com/yndnr/relaychat-go/internal/server/localserver"
	"github.com/yndnr/relaychat-go/internal/storage"
	"github.com/yndnr/relaychat-go/internal/storage/eventlog"
	"github.com/yndnr/relaychat-go/internal/storage/memory"
	"github.com/yndnr/relaychat-go/internal/telemetry/logger"
	"github.com/yndnr/relaychat-go/internal/telemetry/metric"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		port        = flag.Int("port", -1, "Chat port (overrides server.chat.addr)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.StringFor("relaychat-server", buildinfo.Get()))
		return nil
	}

	cfg, err := loadConfig(*configFile, *port)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting relaychat-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *config.Sanitize(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := openStores(cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	events, err := eventlog.Open(cfg.Storage.EventLog)
	if err != nil {
		stores.close(log)
		return fmt.Errorf("open event log: %w", err)
	}

	metrics := metric.Global()
	stores.registerMetrics(metrics)

	auth := service.NewAuthService(stores.credentials, stores.sessions)
	if creds, sessions, err := auth.Counts(ctx); err == nil {
		log.Info("credential store ready", "engine", cfg.Storage.Engine, "users", creds, "sessions", sessions)
	}

	chat := chatserver.New(chatConfig(cfg), auth, events, metrics, log.With("component", "chat"))
	metrics.Registerer().MustRegister(metric.NewCollector(chat.ChatState))

	if err := chat.Start(ctx); err != nil {
		events.Close()
		stores.close(log)
		return fmt.Errorf("start chat server: %w", err)
	}
	fmt.Printf("server started at port %d\n", chat.Port())

	sh := shutdown.NewHandler(shutdownTimeout)

	// A dead accept loop stops the whole server.
	acceptErr := make(chan error, 1)
	go func() {
		if err := <-chat.Done(); err != nil {
			acceptErr <- err
			sh.Trigger("accept loop: " + err.Error())
		}
	}()

	// Hooks run in reverse order: stores close last.
	sh.OnShutdown(func(ctx context.Context) error {
		return stores.close(log)
	})
	sh.OnShutdown(func(ctx context.Context) error {
		return events.Close()
	})
	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down chat server")
		return chat.Shutdown(ctx)
	})

	var history *console.History
	if cfg.Console.HistoryFile != "" {
		history = console.NewHistory(cfg.Console.HistoryFile)
		if err := history.Load(); err != nil {
			log.Warn("failed to load console history", "error", err)
		}
	} else {
		history = console.NewHistory("")
	}

	executor := console.NewExecutor(console.Deps{
		Gate:        chat.Gate(),
		Events:      events,
		Credentials: auth,
		Status:      chat.Status,
		Shutdown:    func() { sh.Trigger("exit command") },
		OnReset: func() {
			if err := events.Record(eventlog.EventCredentialsReset); err != nil {
				log.Warn("failed to record event", "event", eventlog.EventCredentialsReset, "error", err)
			}
		},
		History: history,
	})

	if cfg.Server.Local.Path != "" {
		local := localserver.New(cfg.Server.Local.Path,
			localserver.NewHandler(executor, log.With("component", "local")),
			log.With("component", "local"))
		if err := local.Listen(); err != nil {
			log.Error("local socket unavailable", "path", cfg.Server.Local.Path, "error", err)
		} else {
			go func() {
				if err := local.Serve(ctx); err != nil {
					log.Error("local socket server error", "error", err)
				}
			}()
			sh.OnShutdown(local.Shutdown)
		}
	}

	if cfg.Server.Metrics.Addr != "" {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics:          metrics,
			Status:           chat.Status,
			MetricsAuthToken: cfg.Server.Metrics.AuthToken,
			Logger:           log.With("component", "http"),
		})
		hs := httpserver.New(cfg.Server.Metrics.Addr, router, log.With("component", "http"))
		if err := hs.Start(); err != nil {
			log.Error("metrics endpoint unavailable", "address", cfg.Server.Metrics.Addr, "error", err)
		} else {
			sh.OnShutdown(hs.Shutdown)
		}
	}

	if *configFile != "" {
		if w := watchConfig(*configFile, log); w != nil {
			sh.OnShutdown(func(ctx context.Context) error { return w.Stop() })
		}
	}

	if cfg.Console.Enabled {
		repl := console.NewREPL(os.Stdin, os.Stdout, executor, history, log.With("component", "console"))
		go func() {
			if err := repl.Run(ctx); err != nil {
				log.Error("console error", "error", err)
			}
		}()
	}
	sh.OnShutdown(func(ctx context.Context) error {
		cancel()
		if cfg.Console.HistoryFile != "" {
			return history.Save()
		}
		return nil
	})

	if err := sh.Wait(); err != nil {
		log.Error("shutdown error", "reason", sh.Reason(), "error", err)
		return err
	}

	log.Info("server stopped", "reason", sh.Reason())
	select {
	case err := <-acceptErr:
		return fmt.Errorf("chat server: %w", err)
	default:
		return nil
	}
}

// loadConfig layers the config file and RELAYCHAT_* variables over the
// defaults, then applies -port.
func loadConfig(configFile string, port int) (*config.ServerConfig, error) {
	cfg := config.Default()

	var opts []confloader.Option
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if port >= 0 {
		if port > 65535 {
			return nil, fmt.Errorf("invalid port %d", port)
		}
		cfg.SetChatPort(port)
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func chatConfig(cfg *config.ServerConfig) *chatserver.Config {
	c := cfg.Server.Chat
	return &chatserver.Config{
		Addr:                c.Addr,
		FallbackOnAddrInUse: c.FallbackOnAddrInUse,
		PollInterval:        c.PollInterval,
		ReadTimeout:         c.ReadTimeout,
		WriteTimeout:        c.WriteTimeout,
		HandshakeTimeout:    c.HandshakeTimeout,
	}
}

// watchConfig applies log.level changes from the config file at runtime.
func watchConfig(path string, log *slog.Logger) *confloader.Watcher {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		log.Warn("config watcher unavailable", "path", path, "error", err)
		return nil
	}

	w.OnChange(func(string) {
		cfg := config.Default()
		if err := confloader.NewLoader(confloader.WithConfigFile(path)).Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level == logger.GetLevel() {
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "level", logger.GetLevel())
	})
	w.StartAsync()
	return w
}

// stores bundles the credential and session stores with their engines.
type stores struct {
	credentials *storage.CredentialStore
	sessions    *storage.SessionStore
	engines     []storage.KVEngine
	badgers     []*storage.BadgerEngine
}

func openStores(cfg *config.ServerConfig, log *slog.Logger) (*stores, error) {
	if cfg.Storage.Engine == "memory" {
		credKV, sessKV := memory.New(), memory.New()
		log.Warn("using in-memory storage, credentials are lost on exit")
		return &stores{
			credentials: storage.NewCredentialStore(credKV),
			sessions:    storage.NewSessionStore(sessKV),
			engines:     []storage.KVEngine{credKV, sessKV},
		}, nil
	}

	open := func(name string) (*storage.BadgerEngine, error) {
		kvCfg := storage.DefaultKVConfig(filepath.Join(cfg.Storage.DataDir, name))
		kvCfg.Badger.SyncWrites = cfg.Storage.SyncWrites
		if cfg.Storage.GCInterval != "" {
			kvCfg.Badger.GCInterval = cfg.Storage.GCInterval
		}
		return storage.NewBadgerEngine(name, kvCfg, log.With("component", "storage"))
	}

	credKV, err := open("credentials")
	if err != nil {
		return nil, err
	}
	sessKV, err := open("sessions")
	if err != nil {
		credKV.Close()
		return nil, err
	}

	return &stores{
		credentials: storage.NewCredentialStore(credKV),
		sessions:    storage.NewSessionStore(sessKV),
		engines:     []storage.KVEngine{credKV, sessKV},
		badgers:     []*storage.BadgerEngine{credKV, sessKV},
	}, nil
}

func (s *stores) registerMetrics(m *metric.Registry) {
	for _, b := range s.badgers {
		b.RegisterMetrics(m.Registerer())
	}
}

func (s *stores) close(log *slog.Logger) error {
	var errs []error
	for _, e := range s.engines {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Error("failed to close storage", "error", err)
		return err
	}
	return nil
}
