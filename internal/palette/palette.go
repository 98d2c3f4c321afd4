// Package palette assigns display colours to chart slices.
package palette

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/cespare/xxhash/v2"
)

// Mode selects how colours are assigned.
type Mode string

const (
	// ModeRandom draws a new colour for every slice on every render, so two renders of
	// the same data usually differ.
	ModeRandom Mode = "random"
	// ModeStable derives the colour from the category name.
	ModeStable Mode = "stable"
)

var ErrUnknownMode = errors.New("unknown colour mode")

var hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Palette returns a colour for a named item.
type Palette interface {
	Color(name string) string
}

// ParseMode maps a config value to a Mode. The empty string selects ModeRandom.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRandom:
		return ModeRandom, nil
	case ModeStable:
		return ModeStable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// New returns the palette for mode.
func New(mode Mode) Palette {
	if mode == ModeStable {
		return Stable{}
	}
	return Random{}
}

// Random ignores the name and picks uniformly from [0, 0xFFFFFF).
type Random struct{}

func (Random) Color(string) string {
	return format(rand.Uint32N(0xFFFFFF))
}

// Stable hashes the name, so a category keeps its colour across renders.
type Stable struct{}

func (Stable) Color(name string) string {
	return format(uint32(xxhash.Sum64String(name) & 0xFFFFFF))
}

func format(v uint32) string {
	return fmt.Sprintf("#%06x", v)
}

// IsValidHex reports whether s is a lower-case #rrggbb colour as produced here.
func IsValidHex(s string) bool {
	return hexColorPattern.MatchString(s)
}
