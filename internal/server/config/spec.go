package config

import (
	"net"
	"strconv"
	"time"
)

// ServerConfig is the root configuration for relaychat-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Console ConsoleSection `koanf:"console"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Chat    ChatConfig    `koanf:"chat"`
	Local   LocalConfig   `koanf:"local"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ChatConfig configures the chat listener.
type ChatConfig struct {
	Addr string `koanf:"addr"`

	// FallbackOnAddrInUse binds an ephemeral port when Addr is taken.
	FallbackOnAddrInUse bool `koanf:"fallback_on_addr_in_use"`

	PollInterval     time.Duration `koanf:"poll_interval"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
	WriteTimeout     time.Duration `koanf:"write_timeout"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
}

// LocalConfig configures the local management socket. Empty Path disables it.
type LocalConfig struct {
	Path string `koanf:"path"`
}

// MetricsConfig configures the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr      string `koanf:"addr"`
	AuthToken string `koanf:"auth_token"`
}

// StorageSection configures credential, session and event log storage.
type StorageSection struct {
	// Engine is "badger" or "memory".
	Engine     string `koanf:"engine"`
	DataDir    string `koanf:"data_dir"`
	EventLog   string `koanf:"event_log"`
	SyncWrites bool   `koanf:"sync_writes"`
	GCInterval string `koanf:"gc_interval"`
}

// ConsoleSection configures the interactive admin console on stdin.
type ConsoleSection struct {
	Enabled     bool   `koanf:"enabled"`
	HistoryFile string `koanf:"history_file"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SetChatPort replaces the port of Server.Chat.Addr, keeping its host.
func (c *ServerConfig) SetChatPort(port int) {
	host, _, err := net.SplitHostPort(c.Server.Chat.Addr)
	if err != nil {
		host = ""
	}
	c.Server.Chat.Addr = net.JoinHostPort(host, strconv.Itoa(port))
}
