package config

import (
	"fmt"
	"time"
)

// Generation strategies. A deployment runs exactly one.
const (
	StrategyPresentation = "presentation"
	StrategySlides       = "slides"
)

// Transcription providers.
const (
	TranscriberOpenAI     = "openai"
	TranscriberWhisperCPP = "whisper_cpp"
)

// Artifact storage backends.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Paths         PathsConfig         `yaml:"paths"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Generation    GenerationConfig    `yaml:"generation"`
	Anthropic     AnthropicConfig     `yaml:"anthropic"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Storage       StorageConfig       `yaml:"storage"`
	Tracing       TracingConfig       `yaml:"tracing"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	CORSOrigin      string        `yaml:"cors_origin"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
	Output  string `yaml:"output"`
	// Inbox is optional; when set, audio files dropped there become jobs.
	Inbox string `yaml:"inbox"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent   int           `yaml:"max_concurrent"`
	JobTimeout      time.Duration `yaml:"job_timeout"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
}

type GenerationConfig struct {
	Strategy     string `yaml:"strategy"`
	MaxTurns     int    `yaml:"max_turns"`
	SlideCount   int    `yaml:"slide_count"`
	DefaultNotes string `yaml:"default_notes"`
	NoAudioText  string `yaml:"no_audio_text"`
}

type AnthropicConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	MaxTokens    int    `yaml:"max_tokens"`
	SkillID      string `yaml:"skill_id"`
	SkillVersion string `yaml:"skill_version"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type TranscriptionConfig struct {
	Provider     string        `yaml:"provider"`
	FallbackText string        `yaml:"fallback_text"`
	OpenAI       OpenAIConfig  `yaml:"openai"`
	Whisper      WhisperConfig `yaml:"whisper"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"`
	MinIO   MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type TracingConfig struct {
	Exporter    string `yaml:"exporter"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Validate checks required keys and fills defaults in place.
func (c *Config) Validate() error {
	if c.Generation.Strategy == "" {
		c.Generation.Strategy = StrategyPresentation
	}
	switch c.Generation.Strategy {
	case StrategyPresentation:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic.api_key is required for strategy %q", c.Generation.Strategy)
		}
	case StrategySlides:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required for strategy %q", c.Generation.Strategy)
		}
	default:
		return fmt.Errorf("generation.strategy %q is not supported", c.Generation.Strategy)
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = TranscriberOpenAI
	}
	switch c.Transcription.Provider {
	case TranscriberOpenAI:
		if c.Transcription.OpenAI.APIKey == "" {
			return fmt.Errorf("transcription.openai.api_key is required")
		}
	case TranscriberWhisperCPP:
		if c.Transcription.Whisper.ModelPath == "" {
			return fmt.Errorf("transcription.whisper.model_path is required")
		}
		if c.Transcription.Whisper.BinaryPath == "" {
			return fmt.Errorf("transcription.whisper.binary_path is required")
		}
	default:
		return fmt.Errorf("transcription.provider %q is not supported", c.Transcription.Provider)
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageLocal
	}
	switch c.Storage.Backend {
	case StorageLocal:
	case StorageMinIO:
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("storage.minio.endpoint is required")
		}
		if c.Storage.MinIO.Bucket == "" {
			c.Storage.MinIO.Bucket = "slidecast-artifacts"
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 100
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/outputs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 4
	}
	if c.Performance.JobTimeout == 0 {
		c.Performance.JobTimeout = 15 * time.Minute
	}
	if c.Performance.ProviderTimeout == 0 {
		c.Performance.ProviderTimeout = 3 * time.Minute
	}
	if c.Generation.MaxTurns == 0 {
		c.Generation.MaxTurns = 15
	}
	if c.Generation.SlideCount == 0 {
		c.Generation.SlideCount = 5
	}
	if c.Generation.DefaultNotes == "" {
		c.Generation.DefaultNotes = "No special instructions."
	}
	if c.Generation.NoAudioText == "" {
		c.Generation.NoAudioText = "No audio recorded."
	}
	if c.Anthropic.BaseURL == "" {
		c.Anthropic.BaseURL = "https://api.anthropic.com"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-5-20250929"
	}
	if c.Anthropic.MaxTokens == 0 {
		c.Anthropic.MaxTokens = 8192
	}
	if c.Anthropic.SkillID == "" {
		c.Anthropic.SkillID = "pptx"
	}
	if c.Anthropic.SkillVersion == "" {
		c.Anthropic.SkillVersion = "latest"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Transcription.FallbackText == "" {
		c.Transcription.FallbackText = "Transcription unavailable."
	}
	if c.Transcription.OpenAI.BaseURL == "" {
		c.Transcription.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.Transcription.OpenAI.Model == "" {
		c.Transcription.OpenAI.Model = "whisper-1"
	}
	if c.Transcription.Whisper.Language == "" {
		c.Transcription.Whisper.Language = "auto"
	}
	if c.Transcription.Whisper.Threads == 0 {
		c.Transcription.Whisper.Threads = 4
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "none"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "slidecast"
	}

	return nil
}
