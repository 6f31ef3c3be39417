package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/microauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-s string   token signing secret
//	-t int      token validity, minutes (0 = no expiry)
//	-w int      bcrypt work factor (0 = default)
//	-o string   CORS allow origin
//
// Args are first filtered to the flags handled here, so the -c/-config
// flags of the JSON layer do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-w", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes, 0 = no expiry)")
	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt work factor")
	fs.StringVar(&config.CORSAllowOrigin, "o", config.CORSAllowOrigin, "CORS allow origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
