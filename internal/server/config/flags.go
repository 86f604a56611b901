package config

import (
	"flag"
	"os"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g., "15m")
//	-r duration   refresh token validity (e.g., "168h")
//	-c int        bcrypt cost factor
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("authkeeper-server", flag.ExitOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "secret key")
	fs.DurationVar(&config.AccessTokenTTL, "t", config.AccessTokenTTL, "access token validity")
	fs.DurationVar(&config.RefreshTokenTTL, "r", config.RefreshTokenTTL, "refresh token validity")
	fs.IntVar(&config.BcryptCost, "c", config.BcryptCost, "bcrypt cost factor")

	_ = fs.Parse(os.Args[1:])
}
