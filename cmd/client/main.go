package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andy6609/chat-relay/internal/client"
)

func main() {
	debug := flag.Bool("d", false, "debug logging")
	idle := flag.Duration("idle", 150*time.Second, "disconnect after this long without traffic, 0 to disable")
	plain := flag.Bool("plain", false, "disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-d] [-idle 150s] host port\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(flag.Arg(0), flag.Arg(1))
	logger.Info("connecting", "addr", addr)
	c, err := client.Dial(ctx, addr,
		client.WithIdleTimeout(*idle),
		client.WithColors(!*plain),
		client.WithLogger(logger),
	)
	if err != nil {
		logger.Error("unable to connect", "error", err)
		os.Exit(1)
	}
	logger.Info("connected")

	err = c.Run(ctx, os.Stdin, os.Stdout)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, client.ErrServerClosed), errors.Is(err, client.ErrIdleTimeout):
		logger.Info(err.Error())
	default:
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}
