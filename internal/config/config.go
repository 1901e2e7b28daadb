package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/vaultpass/passgen/internal/crypto"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env             string `validate:"oneof=development test production"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	SpecialChars    string `validate:"required"`
	MinPromptLength int    `validate:"gte=4"`
	Workers         int    `validate:"gte=1,lte=256"`
	HashMemory      uint32 `validate:"gte=8192,lte=4194304"`
	HashIterations  uint32 `validate:"gte=1"`
	HashParallelism uint8  `validate:"gte=1"`
}

var validate = validator.New()

func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SpecialChars: getEnv("PASSGEN_SPECIAL_CHARS", crypto.DefaultSpecialChars),
	}

	defaults := crypto.DefaultHashParams()
	var err error
	if cfg.MinPromptLength, err = getEnvInt("PASSGEN_MIN_PROMPT_LENGTH", 10); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = getEnvInt("PASSGEN_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.HashMemory, err = getEnvUint[uint32]("PASSGEN_HASH_MEMORY_KIB", defaults.Memory, 32); err != nil {
		return Config{}, err
	}
	if cfg.HashIterations, err = getEnvUint[uint32]("PASSGEN_HASH_ITERATIONS", defaults.Iterations, 32); err != nil {
		return Config{}, err
	}
	if cfg.HashParallelism, err = getEnvUint[uint8]("PASSGEN_HASH_PARALLELISM", defaults.Parallelism, 8); err != nil {
		return Config{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// HashParams returns the Argon2id parameters for generated password hashes.
func (c Config) HashParams() crypto.HashParams {
	p := crypto.DefaultHashParams()
	p.Memory = c.HashMemory
	p.Iterations = c.HashIterations
	p.Parallelism = c.HashParallelism
	return p
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getEnvUint[T uint8 | uint32](key string, fallback T, bits int) (T, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return T(n), nil
}
