// Package otp derives and checks time-stepped numeric codes (RFC 6238) from a
// per-use seed. A code is valid only inside the step it was generated for;
// no neighbouring steps are accepted.
package otp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 300 * time.Second
)

var ErrFailedToGenerateSecret = errors.New("failed to generate otp secret")

// Generator produces and verifies codes for a fixed step duration.
type Generator struct {
	period time.Duration
}

// NewGenerator creates a Generator. Periods shorter than one second fall back to DefaultPeriod.
func NewGenerator(period time.Duration) *Generator {
	if period < time.Second {
		period = DefaultPeriod
	}
	return &Generator{period: period.Truncate(time.Second)}
}

// Period returns the step duration.
func (g *Generator) Period() time.Duration {
	return g.period
}

// NewSecret returns a fresh 160-bit base32 seed.
func NewSecret() (string, error) {
	seed := make([]byte, 20)
	if _, err := rand.Read(seed); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(seed), nil
}

// Generate derives the code for the step containing at.
func (g *Generator) Generate(seed string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(seed, at, g.opts())
}

// Verify reports whether code matches the step containing at.
func (g *Generator) Verify(code, seed string, at time.Time) bool {
	if len(code) != DefaultDigits {
		return false
	}
	ok, err := totp.ValidateCustom(code, seed, at, g.opts())
	return err == nil && ok
}

func (g *Generator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(g.period / time.Second),
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
