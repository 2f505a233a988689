package config

import (
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ChessComAPIBase string
	LichessAPIBase  string

	MaxGamesToFetch     int
	RecentMonthsToFetch int

	RedisURL string

	LichessClientID    string
	LichessRedirectURL string
	LichessAuthURL     string
	LichessTokenURL    string
	LichessAccountURL  string

	// Optional directory with message catalog overrides.
	MessageDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ChessComAPIBase:     "https://api.chess.com/pub",
		LichessAPIBase:      "https://lichess.org/api",
		MaxGamesToFetch:     200,
		RecentMonthsToFetch: 6,
		LichessAuthURL:      "https://lichess.org/oauth",
		LichessTokenURL:     "https://lichess.org/api/token",
		LichessAccountURL:   "https://lichess.org/api/account",
		LichessRedirectURL:  "http://localhost:8080/callback",
	}

	if v := strings.TrimSpace(os.Getenv("CHESSCOM_API_BASE")); v != "" {
		cfg.ChessComAPIBase = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_API_BASE")); v != "" {
		cfg.LichessAPIBase = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_GAMES_TO_FETCH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxGamesToFetch = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RECENT_MONTHS_TO_FETCH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentMonthsToFetch = n
		}
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	cfg.LichessClientID = strings.TrimSpace(os.Getenv("LICHESS_CLIENT_ID"))
	if v := strings.TrimSpace(os.Getenv("LICHESS_REDIRECT_URL")); v != "" {
		cfg.LichessRedirectURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_AUTH_URL")); v != "" {
		cfg.LichessAuthURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_TOKEN_URL")); v != "" {
		cfg.LichessTokenURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_ACCOUNT_URL")); v != "" {
		cfg.LichessAccountURL = v
	}

	cfg.MessageDir = strings.TrimSpace(os.Getenv("MESSAGE_DIR"))

	return cfg, nil
}
