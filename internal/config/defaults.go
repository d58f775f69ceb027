package config

// Canonical tier names accepted in engine.default_tier.
const (
	TierEco      = "eco"
	TierBalanced = "balanced"
	TierPro      = "pro"
)

const (
	defaultDataDir          = "~/.local/share/speakcoach"
	defaultRecordingsSubdir = "recordings"
	defaultLogSubdir        = "logs"
	defaultEngineCommand    = "uvx"
	defaultEnginePackage    = "whisper-ctranslate2"
	defaultEcoModel         = "tiny.en"
	defaultBalancedModel    = "small.en"
	defaultProModel         = "medium.en"
	defaultFallbackModel    = "tiny.en"
	defaultBeamSize         = 5
	defaultLanguage         = "en"
	defaultInitialPrompt    = "Umm, I-I think... well, actually... so your... it will delete."
	defaultMode             = "Standard Interview"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 14
	defaultNotifyTimeout    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Engine: Engine{
			Command:       defaultEngineCommand,
			Package:       defaultEnginePackage,
			EcoModel:      defaultEcoModel,
			BalancedModel: defaultBalancedModel,
			ProModel:      defaultProModel,
			FallbackModel: defaultFallbackModel,
			BeamSize:      defaultBeamSize,
			Language:      defaultLanguage,
			InitialPrompt: defaultInitialPrompt,
		},
		Analysis: Analysis{
			DefaultMode: defaultMode,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}
