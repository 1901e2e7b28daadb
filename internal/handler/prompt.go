package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/service"
)

var ErrInputClosed = errors.New("input closed before a value was entered")

// PromptHandler asks for the batch settings on a console and prints the
// generated passwords. Malformed answers are re-asked; errors from the
// service are returned.
type PromptHandler struct {
	service   *service.GeneratorService
	in        *bufio.Scanner
	out       io.Writer
	minLength int
}

// NewPromptHandler creates a PromptHandler that refuses password sizes
// below minLength.
func NewPromptHandler(svc *service.GeneratorService, in io.Reader, out io.Writer, minLength int) *PromptHandler {
	return &PromptHandler{
		service:   svc,
		in:        bufio.NewScanner(in),
		out:       out,
		minLength: minLength,
	}
}

// Run performs one prompt session.
func (h *PromptHandler) Run(ctx context.Context) error {
	length, err := h.promptInt(ctx, "Password size: ",
		fmt.Sprintf("Please enter a number greater than or equal to %d.", h.minLength),
		func(n int) bool { return n >= h.minLength })
	if err != nil {
		return err
	}

	count, err := h.promptInt(ctx, "Number of passwords: ",
		"Please enter a number greater than 0.",
		func(n int) bool { return n > 0 })
	if err != nil {
		return err
	}

	specialChars, err := h.promptSpecialChars(ctx)
	if err != nil {
		return err
	}

	resp, err := h.service.Generate(ctx, model.GenerateRequest{
		Length:       length,
		Count:        count,
		SpecialChars: specialChars,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(h.out, "\nYour passwords:\n\n")
	if err := writePasswords(h.out, resp.Passwords); err != nil {
		return err
	}
	_, err = fmt.Fprintf(h.out, "\nGenerated %d password(s) in %s\n", resp.Count, resp.Elapsed)
	return err
}

func (h *PromptHandler) promptInt(ctx context.Context, prompt, hint string, ok func(int) bool) (int, error) {
	for {
		line, err := h.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || !ok(n) {
			fmt.Fprintln(h.out, hint)
			continue
		}
		return n, nil
	}
}

// promptSpecialChars returns nil when the configured alphabet should be used.
func (h *PromptHandler) promptSpecialChars(ctx context.Context) (*string, error) {
	answer, err := h.readLine(ctx, "Special characters? (y/n): ")
	if err != nil {
		return nil, err
	}
	if !parseYesNo(answer) {
		return nil, nil
	}

	for {
		chars, err := h.readLine(ctx, "Enter wanted special characters: ")
		if err != nil {
			return nil, err
		}
		if chars != "" {
			return &chars, nil
		}
		fmt.Fprintln(h.out, "Please enter at least one character.")
	}
}

// readLine prints prompt and returns the next line without its line ending.
// Surrounding spaces are kept since they may be wanted special characters.
func (h *PromptHandler) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(h.out, prompt)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimRight(h.in.Text(), "\r"), nil
}

// parseYesNo returns true for "y" / "yes" (case-insensitive), false otherwise.
func parseYesNo(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "y" || s == "yes"
}
