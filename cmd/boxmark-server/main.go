// Command boxmark-server runs a headless editor session behind the HTTP API.
// Raster exports use the software rasterizer.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/boxmark"
	"github.com/phanxgames/boxmark/server"
)

func main() {
	var configPath, addr, imagePath, shapesPath string
	var debug bool

	flag.StringVar(&configPath, "config", "", "JSON config file (defaults apply when empty)")
	flag.StringVar(&addr, "addr", "", "listen address (overrides config and BOXMARK_ADDR)")
	flag.StringVar(&imagePath, "image", "", "background image to load on start")
	flag.StringVar(&shapesPath, "shapes", "", "shapes JSON file to import on start")
	flag.BoolVar(&debug, "debug", false, "log every command and check invariants")
	flag.Parse()

	cfg := boxmark.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = boxmark.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.ApplyEnv()
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	editor := boxmark.NewEditor(cfg)
	if err := boxmark.LoadPaths(editor, imagePath, shapesPath); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := boxmark.NewSession(editor, 0)
	go func() {
		_ = session.Run(ctx, 0)
	}()

	srv := server.New(session, cfg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
