package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-j string   JWT signing algorithm (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-l int      login token validity, minutes
//	-k int      bcrypt cost
//	-m string   storage backend (postgres, memory)
//	-v string   vote store (default, redis)
//	-r string   Redis URL
//	-g string   log level
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values. They only replace the loaded value when given.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-j", "-t", "-l", "-k", "-m", "-v", "-r", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "j", config.SigningAlgorithm, "JWT signing algorithm")

	accessTokenValidityDuration := fs.Int("t", 0, "access_token_validity_duration (in minutes)")
	loginTokenValidityDuration := fs.Int("l", 0, "login_token_validity_duration (in minutes)")

	fs.IntVar(&config.PasswordHashCost, "k", config.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&config.StorageBackend, "m", config.StorageBackend, "storage backend")
	fs.StringVar(&config.VoteStore, "v", config.VoteStore, "vote store")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "Redis URL")
	fs.StringVar(&config.LogLevel, "g", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// durations set elsewhere may carry seconds; keep them unless overridden
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "l":
			config.LoginTokenValidityDuration = time.Duration(*loginTokenValidityDuration) * time.Minute
		}
	})
}
