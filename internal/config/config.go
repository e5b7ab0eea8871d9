package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	OpenAIAPIKey     string
	ElevenLabsAPIKey string
	ElevenLabsVoice  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	NotionClientID     string
	NotionClientSecret string
	NotionRedirectURL  string

	// SyncIntervalMinutes is the period of the background reconciliation job.
	// Zero disables the scheduler; sync stays available on demand.
	SyncIntervalMinutes int

	// StatePath is the durable key/value slot for settings and the
	// subscription developer override.
	StatePath string
}

func Load() *Config {
	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "mindmesh"),
		DBPassword:    getEnv("DB_PASSWORD", "mindmesh"),
		DBName:        getEnv("DB_NAME", "mindmesh"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoice:  getEnv("ELEVENLABS_VOICE_ID", "9BWtsMINqrJLrRacOk9x"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		NotionClientID:     getEnv("NOTION_CLIENT_ID", ""),
		NotionClientSecret: getEnv("NOTION_CLIENT_SECRET", ""),
		NotionRedirectURL:  getEnv("NOTION_REDIRECT_URL", ""),

		SyncIntervalMinutes: getEnvInt("SYNC_INTERVAL_MINUTES", 0),

		StatePath: getEnv("STATE_PATH", "mindmesh_state.json"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
