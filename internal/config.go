package internal

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no YouTube Data API key is configured
var ErrMissingAPIKey = errors.New("YouTube API key is required - set YOUTUBE_API_KEY in the environment, a .env file or config.toml")

// Transcript backends
const (
	BackendInnertube = "innertube"
	BackendYTDLP     = "ytdlp"
)

// AppName is used for XDG directories and the env prefix
const AppName = "ytrag"

// Config holds application settings
type Config struct {
	// User configurable settings
	YouTubeAPIKey     string
	OutputDir         string
	MaxVideos         int
	Language          string
	TranscriptBackend string
	DocumentTemplate  string
	DedupeFilenames   bool
	RequestTimeout    time.Duration
	LogLevel          string
	Verbose           bool
	Quiet             bool
	MCPLogEnabled     bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml document.tmpl
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) (bool, error) {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return false, nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return false, fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return false, fmt.Errorf("writing default %s: %w", description, err)
	}

	return true, nil
}

// EnsureDefaultConfig creates config.toml in the config directory unless it exists.
// It reports whether a file was written.
func EnsureDefaultConfig(configDir string) (bool, error) {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultTemplate creates document.tmpl in the config directory unless it exists.
// It reports whether a file was written.
func EnsureDefaultTemplate(configDir string) (bool, error) {
	return ensureDefaultFile(configDir, DocumentTemplateFilename, "document template")
}

// InitConfig initializes Viper and loads configuration
func InitConfig(configFile string) *Config {
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	dataDir := filepath.Join(xdg.DataHome, AppName)
	cacheDir := filepath.Join(xdg.CacheHome, AppName)

	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error reading .env file: %v\n", err)
	}

	v := viper.New()
	setDefaults(v, dataDir)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	// The API key is commonly exported without the prefix
	_ = v.BindEnv("youtube_api_key", "YTRAG_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir
	config.DataDir = dataDir
	config.CacheDir = cacheDir

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("output_dir", filepath.Join(dataDir, "transcripts"))
	v.SetDefault("max_videos", 5)
	v.SetDefault("language", "en")
	v.SetDefault("transcript_backend", BackendInnertube)
	v.SetDefault("document_template", "")
	v.SetDefault("dedupe_filenames", false)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log_enabled", false)
}

func configFromViper(v *viper.Viper) *Config {
	return &Config{
		YouTubeAPIKey:     strings.TrimSpace(v.GetString("youtube_api_key")),
		OutputDir:         v.GetString("output_dir"),
		MaxVideos:         v.GetInt("max_videos"),
		Language:          v.GetString("language"),
		TranscriptBackend: strings.ToLower(v.GetString("transcript_backend")),
		DocumentTemplate:  v.GetString("document_template"),
		DedupeFilenames:   v.GetBool("dedupe_filenames"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		LogLevel:          v.GetString("log_level"),
		Verbose:           v.GetBool("verbose"),
		Quiet:             v.GetBool("quiet"),
		MCPLogEnabled:     v.GetBool("mcp_log_enabled"),
	}
}

// ValidateYouTubeAPIKey checks if the API key is set and returns a standardized error if not
func ValidateYouTubeAPIKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ValidateBackend checks that the transcript backend is supported
func ValidateBackend(backend string) error {
	switch backend {
	case BackendInnertube, BackendYTDLP:
		return nil
	default:
		return fmt.Errorf("unsupported transcript backend: %s (supported: %s, %s)", backend, BackendInnertube, BackendYTDLP)
	}
}
