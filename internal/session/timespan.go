package session

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timespanPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseTimespan resolves an expiry written either as a count of seconds
// ("3600") or as a shorthand ("45s", "15m", "12h", "30d"). The boolean is
// false when the value does not resolve to a positive number of seconds.
func ParseTimespan(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if m := timespanPattern.FindStringSubmatch(value); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		factor := unitSeconds[m[2]]
		if n > math.MaxInt64/factor {
			return 0, false
		}
		return positive(n * factor)
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return positive(n)
}

func positive(n int64) (int64, bool) {
	if n <= 0 {
		return 0, false
	}
	return n, true
}

type signConfig struct {
	expiresIn int64
}

// SignOption customizes a Sign call.
type SignOption func(*signConfig)

// WithExpiresIn sets the token lifetime from a ParseTimespan expression.
// Unparseable values leave the token without an exp claim.
func WithExpiresIn(value string) SignOption {
	return func(cfg *signConfig) {
		if seconds, ok := ParseTimespan(value); ok {
			cfg.expiresIn = seconds
		} else {
			cfg.expiresIn = 0
		}
	}
}

// WithTTL sets the token lifetime, truncated to whole seconds.
func WithTTL(ttl time.Duration) SignOption {
	return func(cfg *signConfig) {
		cfg.expiresIn = int64(ttl / time.Second)
	}
}
