package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	IRCServer   string
	IRCWSURL    string
	IRCNick     string
	IRCRealName string
	IRCChannel  string

	BotPrefix  string
	BotVersion string

	StoreBackend string
	SaveDir      string
	RedisURL     string
	GameTTLSec   int
	DatabaseURL  string

	StatusAddr string
	MsgcatDir  string

	LegacyPawnCapture bool
}

const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		IRCServer:    "irc.libera.chat:6667",
		IRCNick:      "BotManJohnson",
		IRCChannel:   "#bottester",
		BotPrefix:    "!",
		BotVersion:   "0.3.0",
		StoreBackend: StoreFile,
		GameTTLSec:   7 * 24 * 3600,
	}

	if v := strings.TrimSpace(os.Getenv("IRC_SERVER")); v != "" {
		cfg.IRCServer = v
	}
	cfg.IRCWSURL = strings.TrimSpace(os.Getenv("IRC_WS_URL"))
	if v := strings.TrimSpace(os.Getenv("IRC_NICK")); v != "" {
		cfg.IRCNick = v
	}
	cfg.IRCRealName = strings.TrimSpace(os.Getenv("IRC_REALNAME"))
	if cfg.IRCRealName == "" {
		cfg.IRCRealName = cfg.IRCNick
	}
	if v := strings.TrimSpace(os.Getenv("IRC_CHANNEL")); v != "" {
		cfg.IRCChannel = v
	}
	if v := strings.TrimSpace(os.Getenv("BOT_PREFIX")); v != "" {
		cfg.BotPrefix = v
	}
	if v := strings.TrimSpace(os.Getenv("BOT_VERSION")); v != "" {
		cfg.BotVersion = v
	}

	if v := strings.TrimSpace(os.Getenv("STORE_BACKEND")); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	cfg.SaveDir = strings.TrimSpace(os.Getenv("SAVE_DIR"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if v := strings.TrimSpace(os.Getenv("GAME_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GameTTLSec = n
		}
	}
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.StatusAddr = strings.TrimSpace(os.Getenv("STATUS_ADDR"))
	cfg.MsgcatDir = strings.TrimSpace(os.Getenv("MSGCAT_DIR"))

	if v := strings.TrimSpace(os.Getenv("LEGACY_PAWN_CAPTURE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.LegacyPawnCapture = b
		}
	}

	if !strings.HasPrefix(cfg.IRCChannel, "#") && !strings.HasPrefix(cfg.IRCChannel, "&") {
		return nil, fmt.Errorf("IRC_CHANNEL must start with # or &: %q", cfg.IRCChannel)
	}
	if strings.ContainsAny(cfg.IRCNick, " \r\n") {
		return nil, errors.New("IRC_NICK must not contain whitespace")
	}
	switch cfg.StoreBackend {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}
