package config

const (
	defaultDataDir            = "~/.local/share/hashhound"
	defaultLogDir             = "~/.local/share/hashhound/logs"
	defaultResultsDir         = "~/.local/share/hashhound/results"
	defaultAPIBind            = "127.0.0.1:7483"
	defaultIdentifyFormat     = "text"
	defaultIdentifyWorkers    = 4
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 120
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			ResultsDir: defaultResultsDir,
			APIBind:    defaultAPIBind,
		},
		Identify: Identify{
			Format:  defaultIdentifyFormat,
			Workers: defaultIdentifyWorkers,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
