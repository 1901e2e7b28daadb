package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
)

var (
	ErrInvalidCount    = errors.New("password count must be at least 1")
	ErrHashingDisabled = errors.New("password hashing is not configured")
)

// PasswordGenerator is the single-password operation the service batches.
type PasswordGenerator interface {
	Generate(length int, specialChars string) (string, error)
}

// GeneratorService handles password batch generation.
type GeneratorService struct {
	gen          PasswordGenerator
	hasher       *crypto.Hasher
	specialChars string
	workers      int
}

// Option customises a GeneratorService.
type Option func(*GeneratorService)

// WithHasher enables Argon2id hashes in responses that ask for them.
func WithHasher(h *crypto.Hasher) Option {
	return func(s *GeneratorService) { s.hasher = h }
}

// WithSpecialChars sets the alphabet used when a request does not carry one.
func WithSpecialChars(chars string) Option {
	return func(s *GeneratorService) { s.specialChars = chars }
}

// WithWorkers bounds how many passwords are generated at once.
func WithWorkers(n int) Option {
	return func(s *GeneratorService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewGeneratorService creates a new GeneratorService around gen.
func NewGeneratorService(gen PasswordGenerator, opts ...Option) *GeneratorService {
	s := &GeneratorService{
		gen:          gen,
		specialChars: crypto.DefaultSpecialChars,
		workers:      1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces req.Count independent passwords. The request is
// validated once before any password is generated; zero values are
// rejected like any other out-of-range value. The first failure aborts the
// remaining work.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	specialChars := s.specialChars
	if req.SpecialChars != nil {
		specialChars = *req.SpecialChars
	}

	if req.Length < crypto.MinLength {
		return model.GenerateResponse{}, fmt.Errorf("%w: got %d", crypto.ErrInvalidLength, req.Length)
	}
	if req.Count < 1 {
		return model.GenerateResponse{}, ErrInvalidCount
	}
	if specialChars == "" {
		return model.GenerateResponse{}, crypto.ErrEmptyAlphabet
	}
	if req.Hash && s.hasher == nil {
		return model.GenerateResponse{}, ErrHashingDisabled
	}

	start := time.Now()
	passwords := make([]model.GeneratedPassword, req.Count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range passwords {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			password, err := s.gen.Generate(req.Length, specialChars)
			if err != nil {
				return err
			}
			passwords[i].Password = password

			if req.Hash {
				hash, err := s.hasher.Hash(password)
				if err != nil {
					return fmt.Errorf("hashing password: %w", err)
				}
				passwords[i].Hash = hash
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.GenerateResponse{}, err
	}

	elapsed := time.Since(start)
	slog.Debug("password batch generated",
		"count", req.Count,
		"length", req.Length,
		"hashed", req.Hash,
		"elapsed", elapsed,
	)

	return model.GenerateResponse{
		Passwords: passwords,
		Length:    req.Length,
		Count:     req.Count,
		Elapsed:   elapsed,
	}, nil
}
