package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/healthlog/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   server base URL (e.g., "http://127.0.0.1:8080")
//	-f string   path to the local keystore file
//
// os.Args is filtered to only these flags first, so command names and other
// components' flags do not collide with this set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-f"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerBaseURL, "e", config.ServerBaseURL, "server base URL")
	fs.StringVar(&config.StoragePath, "f", config.StoragePath, "keystore file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
