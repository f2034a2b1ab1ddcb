package config

const (
	defaultConfigPath            = "~/.config/quill/config.toml"
	defaultStateDir              = "~/.local/share/quill"
	defaultLogDir                = "~/.local/share/quill/logs"
	defaultSocketName            = "quill.sock"
	defaultLongWordThreshold     = 5
	defaultDispatcherName        = "default"
	defaultQueueSize             = 64
	defaultRequestTimeoutSeconds = 10
	defaultJournalRetain         = 1000
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults. SocketPath is
// derived from StateDir during normalization when left empty.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Analysis: Analysis{
			LongWordThreshold: defaultLongWordThreshold,
		},
		Dispatcher: Dispatcher{
			Name:                  defaultDispatcherName,
			QueueSize:             defaultQueueSize,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Journal: Journal{
			Enabled: true,
			Retain:  defaultJournalRetain,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
