package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"TerminalEcho/commands"
	"TerminalEcho/internal/game"
)

func main() {
	addr := flag.String("addr", "", "TCP listen address (overrides ECHO_ADDR)")
	wsAddr := flag.String("ws", "", "WebSocket listen address (overrides ECHO_WS_ADDR)")
	dataPath := flag.String("data", "", "directory containing the world YAML files (overrides ECHO_DATA)")
	flag.Parse()

	cfg, err := game.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *wsAddr != "" {
		cfg.WSAddr = *wsAddr
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	world, err := game.LoadWorld(cfg.DataPath, cfg.StartRoom)
	if err != nil {
		log.Error("world load failed", "error", err)
		os.Exit(1)
	}
	log.Info("world loaded", "rooms", len(world.RoomIDs()), "start", world.StartRoom())

	srv, err := game.NewServer(cfg, world, commands.Dispatch, log)
	if err != nil {
		log.Error("server init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WSAddr != "" {
		go func() {
			if err := srv.ServeWebSocket(ctx, cfg.WSAddr); err != nil {
				log.Error("websocket listener failed", "error", err)
			}
		}()
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
