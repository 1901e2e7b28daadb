package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/handler"
	"github.com/vaultpass/passgen/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit status: 0 on success, 2 for bad input and 1
// for any other failure.
func run(args []string) int {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		return 1
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	genService := service.NewGeneratorService(
		crypto.NewGenerator(crypto.NewSecureSource()),
		service.WithSpecialChars(cfg.SpecialChars),
		service.WithWorkers(cfg.Workers),
		service.WithHasher(crypto.NewHasher(cfg.HashParams())),
	)

	if len(args) == 0 {
		err = handler.NewPromptHandler(genService, os.Stdin, os.Stdout, cfg.MinPromptLength).Run(ctx)
	} else {
		fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
		opts, perr := handler.ParseFlags(fs, args)
		if errors.Is(perr, flag.ErrHelp) {
			return 0
		}
		if perr != nil {
			slog.Error("invalid arguments", "error", perr)
			return 2
		}
		err = handler.NewBatchHandler(genService, os.Stdout, cfg.MinPromptLength).Run(ctx, opts)
	}

	if err != nil {
		if handler.IsValidationError(err) {
			slog.Error("invalid input", "error", err)
			return 2
		}
		slog.Error("password generation failed", "error", err)
		return 1
	}

	return 0
}
