package config

const (
	defaultDataDir         = "~/.local/share/crumb"
	defaultLogDir          = "~/.local/share/crumb/logs"
	defaultBind            = "127.0.0.1:8480"
	defaultTokenTTLMinutes = 60
	defaultBcryptCost      = 10
	defaultLLMBaseURL      = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel        = "google/gemini-2.0-flash-001"
	defaultLLMTimeout      = 30
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			Bind:    defaultBind,
		},
		Auth: Auth{
			TokenTTLMinutes: defaultTokenTTLMinutes,
			BcryptCost:      defaultBcryptCost,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
