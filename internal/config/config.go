package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	ModelDir         string
	VoskModelEN      string
	VoskModelZH      string
	WhisperModelPath string
	WhisperThreads   int

	TranslationBackends []string
	RecognitionBackends []string
	TranslationTimeout  time.Duration
	RecognitionTimeout  time.Duration

	LibreTranslateURL    string
	LibreTranslateAPIKey string
	MyMemoryEmail        string
	GoogleCredentials    string
	HTTPProxy            string
	AWSRegion            string

	CacheDir   string
	TTSEnabled bool
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Defaults registers every key with its default so AutomaticEnv can see it.
func Defaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("model_dir", "./models")
	v.SetDefault("vosk_model_en", "")
	v.SetDefault("vosk_model_zh", "")
	v.SetDefault("whisper_model_path", "")
	v.SetDefault("whisper_threads", 0)

	v.SetDefault("translation_backends", "mymemory,libretranslate,googletrans,google,aws")
	v.SetDefault("recognition_backends", "vosk,whisper,google")
	v.SetDefault("translation_timeout", "10s")
	v.SetDefault("recognition_timeout", "30s")

	v.SetDefault("libretranslate_url", "https://libretranslate.de")
	v.SetDefault("libretranslate_api_key", "")
	v.SetDefault("mymemory_email", "")
	v.SetDefault("google_application_credentials", "")
	v.SetDefault("http_proxy", "")
	v.SetDefault("aws_region", "")

	v.SetDefault("cache_dir", "")
	v.SetDefault("tts_enabled", false)
}

// New returns a viper instance reading defaults, then an optional config
// file, then the environment (highest precedence after explicit flags).
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	Defaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves the Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:      v.GetInt("port"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		ModelDir:         v.GetString("model_dir"),
		VoskModelEN:      v.GetString("vosk_model_en"),
		VoskModelZH:      v.GetString("vosk_model_zh"),
		WhisperModelPath: v.GetString("whisper_model_path"),
		WhisperThreads:   v.GetInt("whisper_threads"),

		TranslationBackends: list(v, "translation_backends"),
		RecognitionBackends: list(v, "recognition_backends"),
		TranslationTimeout:  v.GetDuration("translation_timeout"),
		RecognitionTimeout:  v.GetDuration("recognition_timeout"),

		LibreTranslateURL:    v.GetString("libretranslate_url"),
		LibreTranslateAPIKey: v.GetString("libretranslate_api_key"),
		MyMemoryEmail:        v.GetString("mymemory_email"),
		GoogleCredentials:    v.GetString("google_application_credentials"),
		HTTPProxy:            v.GetString("http_proxy"),
		AWSRegion:            v.GetString("aws_region"),

		CacheDir:   v.GetString("cache_dir"),
		TTSEnabled: v.GetBool("tts_enabled"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.VoskModelEN == "" {
		cfg.VoskModelEN = filepath.Join(cfg.ModelDir, "vosk-model-small-en-us-0.15")
	}
	if cfg.VoskModelZH == "" {
		cfg.VoskModelZH = filepath.Join(cfg.ModelDir, "vosk-model-small-cn-0.22")
	}
	if cfg.WhisperModelPath == "" {
		cfg.WhisperModelPath = filepath.Join(cfg.ModelDir, "ggml-base.bin")
	}
	if cfg.TranslationTimeout <= 0 {
		cfg.TranslationTimeout = 10 * time.Second
	}
	if cfg.RecognitionTimeout <= 0 {
		cfg.RecognitionTimeout = 30 * time.Second
	}
	return cfg, nil
}

// FromEnv is New("") followed by Load.
func FromEnv() (Config, error) {
	v, err := New("")
	if err != nil {
		return Config{}, err
	}
	return Load(v)
}

// ModelPaths maps catalog ids to the configured locations.
func (c Config) ModelPaths() map[string]string {
	return map[string]string{
		"vosk-en": c.VoskModelEN,
		"vosk-zh": c.VoskModelZH,
		"whisper": c.WhisperModelPath,
	}
}

// list accepts either a comma separated string (env) or a sequence (config file).
func list(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).([]any); ok {
		parts := make([]string, 0, len(raw))
		for _, p := range raw {
			parts = append(parts, fmt.Sprint(p))
		}
		return splitList(strings.Join(parts, ","))
	}
	return splitList(v.GetString(key))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
