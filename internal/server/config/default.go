package config

import "time"

// Default configuration values.
const (
	DefaultChatAddr         = ":9090"
	DefaultPollInterval     = time.Second
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultHandshakeTimeout = 2 * time.Minute

	DefaultStorageEngine = "badger"
	DefaultDataDir       = "./data"
	DefaultEventLog      = "./server.log"
	DefaultGCInterval    = "10m"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Chat: ChatConfig{
				Addr:                DefaultChatAddr,
				FallbackOnAddrInUse: true,
				PollInterval:        DefaultPollInterval,
				ReadTimeout:         DefaultReadTimeout,
				WriteTimeout:        DefaultWriteTimeout,
				HandshakeTimeout:    DefaultHandshakeTimeout,
			},
		},
		Storage: StorageSection{
			Engine:     DefaultStorageEngine,
			DataDir:    DefaultDataDir,
			EventLog:   DefaultEventLog,
			GCInterval: DefaultGCInterval,
		},
		Console: ConsoleSection{
			Enabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
