package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophvote/internal/flagx"
	"github.com/dmitrijs2005/gophvote/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"signing_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LoginTokenValidityDuration  timex.Duration `json:"login_token_validity_duration"`
	PasswordHashCost            int            `json:"password_hash_cost"`
	StorageBackend              string         `json:"storage_backend"`
	VoteStore                   string         `json:"vote_store"`
	RedisURL                    string         `json:"redis_url"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Keys that
// are absent or zero leave the current value alone. An unreadable or
// malformed file panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.VoteStore, c.VoteStore)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.LoginTokenValidityDuration.Duration > 0 {
		config.LoginTokenValidityDuration = c.LoginTokenValidityDuration.Duration
	}
	if c.PasswordHashCost > 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
