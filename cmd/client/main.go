package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/healthlog/internal/client/cli"
	"github.com/dmitrijs2005/healthlog/internal/client/config"
	"github.com/dmitrijs2005/healthlog/internal/client/session"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	store, err := session.Open(ctx, cfg.StoragePath)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer store.Close()

	app := cli.NewApp(cfg, store, os.Stdin, os.Stdout)

	// Everything that is not a flag is the command and its arguments.
	args := commandArgs(os.Args[1:])
	if err := app.Run(ctx, args); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

// commandArgs strips the flags handled by the config layers, leaving the
// command words.
func commandArgs(args []string) []string {
	valueFlags := map[string]bool{"-e": true, "-f": true, "-c": true, "-config": true}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] && i+1 < len(args) {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}
