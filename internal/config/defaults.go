package config

const (
	defaultDataDir               = "~/.local/share/animelens"
	defaultLogDir                = "~/.local/share/animelens/logs"
	defaultTraceBaseURL          = "https://api.trace.moe"
	defaultTraceRequestTimeout   = 30
	defaultAniListBaseURL        = "https://graphql.anilist.co"
	defaultAniListRequestTimeout = 15
	defaultXPPerScan             = 5
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Trace: Trace{
			BaseURL:        defaultTraceBaseURL,
			RequestTimeout: defaultTraceRequestTimeout,
		},
		AniList: AniList{
			BaseURL:        defaultAniListBaseURL,
			RequestTimeout: defaultAniListRequestTimeout,
		},
		Leveling: Leveling{
			XPPerScan: defaultXPPerScan,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
