package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/service"
)

func parse(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return ParseFlags(fs, args)
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, Options{Length: 16, Count: 1, Format: FormatText}, opts)
}

func TestParseFlags_AllFlags(t *testing.T) {
	opts, err := parse(t, "-length", "24", "-count", "5", "-special", "!@#", "-hash", "-format", "json")
	require.NoError(t, err)

	assert.Equal(t, Options{
		Length:       24,
		Count:        5,
		SpecialChars: "!@#",
		SpecialSet:   true,
		Hash:         true,
		Format:       FormatJSON,
	}, opts)
}

func TestParseFlags_ExplicitEmptySpecial(t *testing.T) {
	opts, err := parse(t, "-special=")
	require.NoError(t, err)

	assert.True(t, opts.SpecialSet)
	assert.Empty(t, opts.SpecialChars)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":        {"-colour"},
		"non-numeric length":  {"-length", "long"},
		"positional argument": {"-count", "2", "extra"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, args...)
			assert.Error(t, err)
		})
	}
}

func runBatch(t *testing.T, svc *service.GeneratorService, opts Options) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewBatchHandler(svc, &out, 10).Run(context.Background(), opts)
	return out.String(), err
}

func TestBatch_TextOutput(t *testing.T) {
	out, err := runBatch(t, newTestService(), Options{Length: 10, Count: 4, SpecialChars: "!@#", SpecialSet: true, Format: FormatText})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Len(t, line, 10)
		assert.True(t, strings.ContainsAny(line, "!@#"), "password %q missing special character", line)
	}
}

func TestBatch_JSONOutput(t *testing.T) {
	out, err := runBatch(t, newTestService(service.WithSpecialChars("<>&")), Options{Length: 12, Count: 3, Format: FormatJSON})
	require.NoError(t, err)

	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, 12, resp.Length)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Passwords, 3)
	for _, p := range resp.Passwords {
		assert.Len(t, p.Password, 12)
		assert.True(t, strings.ContainsAny(p.Password, "<>&"))
		assert.Empty(t, p.Hash)
	}
	assert.NotContains(t, out, `\u003c`, "special characters should not be HTML-escaped")
}

func TestBatch_HashedOutput(t *testing.T) {
	hasher := crypto.NewHasher(crypto.HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	svc := newTestService(service.WithHasher(hasher))

	out, err := runBatch(t, svc, Options{Length: 10, Count: 2, Hash: true, Format: FormatText})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		password, hash, found := strings.Cut(line, "\t")
		require.True(t, found, "line %q has no hash column", line)
		ok, err := hasher.Verify(password, hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBatch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantErr    error
		validation bool
	}{
		{
			name:       "length below structural minimum",
			opts:       Options{Length: 3, Count: 1, Format: FormatText},
			wantErr:    crypto.ErrInvalidLength,
			validation: true,
		},
		{
			name:       "empty special alphabet",
			opts:       Options{Length: 10, Count: 1, SpecialSet: true, Format: FormatText},
			wantErr:    crypto.ErrEmptyAlphabet,
			validation: true,
		},
		{
			name:       "negative count",
			opts:       Options{Length: 10, Count: -1, Format: FormatText},
			wantErr:    service.ErrInvalidCount,
			validation: true,
		},
		{
			name:       "unknown format",
			opts:       Options{Length: 10, Count: 1, Format: "xml"},
			wantErr:    ErrInvalidFormat,
			validation: true,
		},
		{
			name:    "hash without hasher",
			opts:    Options{Length: 10, Count: 1, Hash: true, Format: FormatText},
			wantErr: service.ErrHashingDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runBatch(t, newTestService(), tt.opts)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.validation, IsValidationError(err))
			assert.Empty(t, out)
		})
	}
}

func TestBatch_ShortButValidLengthAllowed(t *testing.T) {
	out, err := runBatch(t, newTestService(), Options{Length: crypto.MinLength, Count: 1, Format: FormatText})
	require.NoError(t, err)

	assert.Len(t, strings.TrimSuffix(out, "\n"), crypto.MinLength)
}
