package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xtding233/rarity-engine/internal/config"
	"github.com/xtding233/rarity-engine/internal/server"
)

func main() {
	cfg, err := server.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	log.SetPrefix("[RARITY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
