package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Verify validates the configuration.
//
// With the badger engine the data directory is created if missing.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.chat.addr", cfg.Chat.Addr); err != nil {
		return err
	}
	durations := []struct {
		key string
		val time.Duration
	}{
		{"server.chat.poll_interval", cfg.Chat.PollInterval},
		{"server.chat.read_timeout", cfg.Chat.ReadTimeout},
		{"server.chat.write_timeout", cfg.Chat.WriteTimeout},
		{"server.chat.handshake_timeout", cfg.Chat.HandshakeTimeout},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.key, d.val)
		}
	}
	if cfg.Chat.PollInterval > cfg.Chat.ReadTimeout {
		return errors.New("server.chat.poll_interval must not exceed server.chat.read_timeout")
	}
	if cfg.Metrics.Addr != "" {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: invalid address %q: %w", key, addr, err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case "memory":
	case "badger":
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required")
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.New("cannot create data directory: " + err.Error())
		}
		if cfg.GCInterval != "" {
			if d, err := time.ParseDuration(cfg.GCInterval); err != nil || d <= 0 {
				return fmt.Errorf("storage.gc_interval: invalid duration %q", cfg.GCInterval)
			}
		}
	default:
		return fmt.Errorf("storage.engine must be badger or memory, got %q", cfg.Engine)
	}

	if cfg.EventLog == "" {
		return errors.New("storage.event_log is required")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Format)
	}
	return nil
}
