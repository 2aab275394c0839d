package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is read once at startup from the environment. Every field has a
// default so the server runs with no configuration at all.
type Config struct {
	Addr           string
	Env            string
	AllowedOrigins []string

	// word corpus: postgres DSN wins over file, fallback list otherwise
	WordsDSN  string
	WordsFile string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	MaxStack         int
	IntervalMs       int
	SuddenDeathLives int
}

func Load() Config {
	return Config{
		Addr:             getEnv("ADDR", ":8080"),
		Env:              getEnv("APP_ENV", "development"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		WordsDSN:         os.Getenv("WORDS_DSN"),
		WordsFile:        os.Getenv("WORDS_FILE"),
		RedisHost:        os.Getenv("REDIS_HOST"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		MaxStack:         getEnvInt("MAX_STACK", 5),
		IntervalMs:       getEnvInt("INTERVAL_MS", 2000),
		SuddenDeathLives: getEnvInt("SUDDEN_DEATH_LIVES", 1),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
