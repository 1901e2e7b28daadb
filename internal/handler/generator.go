package handler

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/service"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrInvalidFormat = errors.New("output format must be text or json")

// Options are the batch-mode command line settings.
type Options struct {
	Length       int
	Count        int
	SpecialChars string
	// SpecialSet reports whether -special was given; otherwise the
	// configured alphabet applies.
	SpecialSet bool
	Hash       bool
	Format     string
}

// ParseFlags registers the batch flags on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options

	fs.IntVar(&opts.Length, "length", 16, "password length (at least 4)")
	fs.IntVar(&opts.Count, "count", 1, "number of passwords to generate")
	fs.StringVar(&opts.SpecialChars, "special", "", "special characters to draw from (default: configured set)")
	fs.BoolVar(&opts.Hash, "hash", false, "print an Argon2id hash next to each password")
	fs.StringVar(&opts.Format, "format", FormatText, "output format: text or json")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "special" {
			opts.SpecialSet = true
		}
	})

	return opts, nil
}

// BatchHandler prints a batch of passwords described by command line flags.
type BatchHandler struct {
	service           *service.GeneratorService
	out               io.Writer
	recommendedLength int
}

// NewBatchHandler creates a new BatchHandler writing to out.
func NewBatchHandler(svc *service.GeneratorService, out io.Writer, recommendedLength int) *BatchHandler {
	return &BatchHandler{service: svc, out: out, recommendedLength: recommendedLength}
}

// Run generates the batch and writes it in the requested format. Only the
// structural minimum length is enforced here; shorter than recommended
// lengths are logged and allowed.
func (h *BatchHandler) Run(ctx context.Context, opts Options) error {
	if opts.Format != FormatText && opts.Format != FormatJSON {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, opts.Format)
	}

	if opts.Length >= crypto.MinLength && opts.Length < h.recommendedLength {
		slog.Warn("password length below recommended minimum",
			"length", opts.Length,
			"recommended", h.recommendedLength,
		)
	}

	req := model.GenerateRequest{
		Length: opts.Length,
		Count:  opts.Count,
		Hash:   opts.Hash,
	}
	if opts.SpecialSet {
		req.SpecialChars = &opts.SpecialChars
	}

	resp, err := h.service.Generate(ctx, req)
	if err != nil {
		return err
	}

	if opts.Format == FormatJSON {
		return writeJSON(h.out, resp)
	}
	return writePasswords(h.out, resp.Passwords)
}

// IsValidationError reports whether err was caused by bad input rather than
// a failure while generating.
func IsValidationError(err error) bool {
	return errors.Is(err, crypto.ErrInvalidLength) ||
		errors.Is(err, crypto.ErrEmptyAlphabet) ||
		errors.Is(err, crypto.ErrInvalidAlphabet) ||
		errors.Is(err, service.ErrInvalidCount) ||
		errors.Is(err, ErrInvalidFormat)
}

func writePasswords(w io.Writer, passwords []model.GeneratedPassword) error {
	for _, p := range passwords {
		var err error
		if p.Hash != "" {
			_, err = fmt.Fprintf(w, "%s\t%s\n", p.Password, p.Hash)
		} else {
			_, err = fmt.Fprintln(w, p.Password)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
