package crypto

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// CharacterClass is one required password category.
type CharacterClass string

const (
	Uppercase CharacterClass = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase CharacterClass = "abcdefghijklmnopqrstuvwxyz"
	Digits    CharacterClass = "0123456789"

	// DefaultSpecialChars is used when the caller supplies no special alphabet.
	DefaultSpecialChars = `!@#$%^&*()_-+={[}]|\:;'<,>.?/`

	// MinLength is the shortest password that can hold one character of each class.
	MinLength = 4
)

var (
	ErrInvalidLength   = errors.New("password length must be at least 4")
	ErrEmptyAlphabet   = errors.New("special character alphabet must not be empty")
	ErrInvalidAlphabet = errors.New("special character alphabet must be valid UTF-8")
)

// Read-only after init.
var (
	upperRunes = []rune(Uppercase)
	lowerRunes = []rune(Lowercase)
	digitRunes = []rune(Digits)
)

// Generator builds passwords that hold at least one uppercase letter, one
// lowercase letter, one digit and one special character. It keeps no
// mutable state, so a single Generator may be shared between goroutines as
// long as its Source is.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator drawing every random choice from src.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

var defaultGenerator = NewGenerator(NewSecureSource())

// Generate creates a password with the package's crypto/rand backed generator.
func Generate(length int, specialChars string) (string, error) {
	return defaultGenerator.Generate(length, specialChars)
}

// Generate creates a password of length characters. Length is counted in
// characters (code points), not bytes.
func (g *Generator) Generate(length int, specialChars string) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if specialChars == "" {
		return "", ErrEmptyAlphabet
	}
	if !utf8.ValidString(specialChars) {
		return "", ErrInvalidAlphabet
	}

	classes := [...][]rune{upperRunes, lowerRunes, digitRunes, []rune(specialChars)}

	result := make([]rune, 0, length)

	// One character from each class first; the shuffle below removes the
	// positional pattern this leaves.
	for _, class := range classes {
		ch, err := g.pick(class)
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	for len(result) < length {
		c, err := g.src.IntN(len(classes))
		if err != nil {
			return "", fmt.Errorf("choosing character class: %w", err)
		}
		ch, err := g.pick(classes[c])
		if err != nil {
			return "", err
		}
		result = append(result, ch)
	}

	if err := shuffle(g.src, result); err != nil {
		return "", err
	}

	return string(result), nil
}

func (g *Generator) pick(class []rune) (rune, error) {
	i, err := g.src.IntN(len(class))
	if err != nil {
		return 0, fmt.Errorf("choosing character: %w", err)
	}
	return class[i], nil
}

// shuffle performs a Fisher-Yates shuffle drawing from src.
func shuffle(src Source, data []rune) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := src.IntN(i + 1)
		if err != nil {
			return fmt.Errorf("shuffling: %w", err)
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}
