package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", true, "draw physics collider outlines (toggle with F3)")
	watch := flag.Bool("watch", false, "reload prefabs/*.yaml from disk when they change")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	game, err := NewGame(Options{Debug: *debug, Watch: *watch, Logger: logger})
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.app.Width, game.app.Height)
	ebiten.SetWindowTitle(game.app.Title)
	ebiten.SetTPS(game.app.TPS)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited with error", "err", err)
		game.Close()
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
