package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/srgchrksv/ieltspodcaster/models"
)

type HTTPConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type GenerationConfig struct {
	// Providers are tried in order at startup; the first that loads wins.
	Providers []string     `yaml:"providers"`
	Gemini    GeminiConfig `yaml:"gemini"`
	Ollama    OllamaConfig `yaml:"ollama"`
	OpenAI    OpenAIConfig `yaml:"openai"`
}

type VoicesConfig struct {
	Examiner  models.VoiceProfile `yaml:"examiner"`
	Candidate models.VoiceProfile `yaml:"candidate"`
	Pause     models.VoiceProfile `yaml:"pause"`
	PauseText string              `yaml:"pause_text"`
}

type TTSConfig struct {
	CredentialsFile string       `yaml:"credentials_file"`
	Voices          VoicesConfig `yaml:"voices"`
}

type STTConfig struct {
	Enabled      bool   `yaml:"enabled"`
	LanguageCode string `yaml:"language_code"`
}

type StorageConfig struct {
	AudioDir      string `yaml:"audio_dir"`
	MaxFiles      int    `yaml:"max_files"`
	PruneSchedule string `yaml:"prune_schedule"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Generation GenerationConfig `yaml:"generation"`
	TTS        TTSConfig        `yaml:"tts"`
	STT        STTConfig        `yaml:"stt"`
	Storage    StorageConfig    `yaml:"storage"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8000",
			AllowOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Generation: GenerationConfig{
			Providers: []string{"gemini", "ollama", "openai"},
			Gemini:    GeminiConfig{Model: "gemini-1.5-flash"},
			Ollama:    OllamaConfig{URL: "http://localhost:11434", Model: "qwen2.5:1.5b-instruct"},
			OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		},
		TTS: TTSConfig{
			Voices: VoicesConfig{
				Examiner:  models.VoiceProfile{LanguageCode: "en-GB", Gender: "male", SpeakingRate: 1.0},
				Candidate: models.VoiceProfile{LanguageCode: "en-US", Gender: "female", SpeakingRate: 1.0},
				Pause:     models.VoiceProfile{LanguageCode: "en-US", Gender: "neutral", SpeakingRate: 0.5},
				PauseText: "hmm",
			},
		},
		STT: STTConfig{
			Enabled:      true,
			LanguageCode: "en-US",
		},
		Storage: StorageConfig{
			AudioDir:      "audio_files",
			MaxFiles:      200,
			PruneSchedule: "@every 1h",
		},
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty),
// then IELTS_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.HTTP.Addr, "IELTS_HTTP_ADDR")
	overrideStringSlice(&cfg.HTTP.AllowOrigins, "IELTS_HTTP_ALLOW_ORIGINS")
	overrideString(&cfg.Log.Level, "IELTS_LOG_LEVEL")
	overrideString(&cfg.Log.Format, "IELTS_LOG_FORMAT")
	overrideStringSlice(&cfg.Generation.Providers, "IELTS_GENERATION_PROVIDERS")
	overrideString(&cfg.Generation.Gemini.APIKey, "GEMINI_API_KEY")
	overrideString(&cfg.Generation.Gemini.Model, "IELTS_GEMINI_MODEL")
	overrideString(&cfg.Generation.Ollama.URL, "OLLAMA_HOST")
	overrideString(&cfg.Generation.Ollama.Model, "IELTS_OLLAMA_MODEL")
	overrideString(&cfg.Generation.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideString(&cfg.Generation.OpenAI.BaseURL, "OPENAI_BASE_URL")
	overrideString(&cfg.Generation.OpenAI.Model, "IELTS_OPENAI_MODEL")
	overrideString(&cfg.TTS.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	overrideString(&cfg.TTS.Voices.Examiner.Name, "IELTS_TTS_EXAMINER_VOICE")
	overrideString(&cfg.TTS.Voices.Candidate.Name, "IELTS_TTS_CANDIDATE_VOICE")
	overrideString(&cfg.TTS.Voices.PauseText, "IELTS_TTS_PAUSE_TEXT")
	overrideBool(&cfg.STT.Enabled, "IELTS_STT_ENABLED")
	overrideString(&cfg.STT.LanguageCode, "IELTS_STT_LANGUAGE_CODE")
	overrideString(&cfg.Storage.AudioDir, "IELTS_AUDIO_DIR")
	overrideInt(&cfg.Storage.MaxFiles, "IELTS_STORAGE_MAX_FILES")
	overrideString(&cfg.Storage.PruneSchedule, "IELTS_STORAGE_PRUNE_SCHEDULE")
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return errors.New("http.addr must not be empty")
	}
	if strings.TrimSpace(cfg.Storage.AudioDir) == "" {
		return errors.New("storage.audio_dir must not be empty")
	}
	if cfg.Storage.MaxFiles < 0 {
		return errors.New("storage.max_files must be >= 0")
	}
	for _, p := range cfg.Generation.Providers {
		switch p {
		case "gemini", "ollama", "openai":
		default:
			return fmt.Errorf("unknown generation provider %q", p)
		}
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}

func overrideString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			*target = out
		}
	}
}
