package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHVOTE_"

// parseEnv overlays GOPHVOTE_* variables onto config. A dotenv file named by
// -env-file, or ./.env when present, is loaded first; variables already set
// in the process environment win over the file. Malformed values panic.
func parseEnv(config *Config) {
	loadDotenv(flagx.EnvFile())

	lookupString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	lookupString(&config.DatabaseDSN, "DATABASE_DSN")
	lookupString(&config.SecretKey, "SECRET_KEY")
	lookupString(&config.SigningAlgorithm, "SIGNING_ALGORITHM")
	lookupDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	lookupDuration(&config.LoginTokenValidityDuration, "LOGIN_TOKEN_TTL")
	lookupInt(&config.PasswordHashCost, "PASSWORD_HASH_COST")
	lookupString(&config.StorageBackend, "STORAGE")
	lookupString(&config.VoteStore, "VOTE_STORE")
	lookupString(&config.RedisURL, "REDIS_URL")
	lookupString(&config.LogLevel, "LOG_LEVEL")
}

func loadDotenv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
	if err := godotenv.Load(); err != nil {
		panic(err)
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, key, err))
	}
	*dst = d
}

func lookupInt(dst *int, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, key, err))
	}
	*dst = n
}
