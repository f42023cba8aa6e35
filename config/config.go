package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SiteUsername string
	SitePassword string
	// SessionCookie, when set, is installed directly on the HTTP session
	// and the login request is skipped entirely.
	SessionCookie string

	LoginURL   string
	AccountURL string
	TraderURL  string

	DiscordToken     string
	DiscordChannelID string

	HistoryLimit     int
	RunIntervalHours int
	RunTimeoutMin    int
	// ReservedSlots is the number of leading trader rows the site keeps
	// non-sellable; they are scraped but never reported.
	ReservedSlots int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SiteUsername:  getEnv("JD_USERNAME", ""),
		SitePassword:  getEnv("JD_PASSWORD", ""),
		SessionCookie: getEnv("JD_SESSION_COOKIE", ""),

		LoginURL:   getEnv("LOGIN_URL", "https://classic.jadedynasty.online/?page=account&login_scripts=1&login=1"),
		AccountURL: getEnv("ACCOUNT_URL", "https://classic.jadedynasty.online/page.php?page=account"),
		TraderURL:  getEnv("TRADER_URL", "https://classic.jadedynasty.online/page.php?page=account&subpage=trader"),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),

		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 1000),
		RunIntervalHours: getEnvInt("RUN_INTERVAL_HOURS", 24),
		RunTimeoutMin:    getEnvInt("RUN_TIMEOUT_MIN", 10),
		ReservedSlots:    getEnvInt("RESERVED_SLOTS", 2),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
