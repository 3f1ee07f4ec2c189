package validation

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input length limits
const (
	MaxTermLength  = 200
	MaxURLLength   = 2048
	MaxConcurrency = 32
)

// ParseID parses a resource ID. IDs are non-negative decimal integers within int32 range.
func ParseID(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: must be a non-negative integer", s)
	}
	if id64 < 0 {
		return 0, fmt.Errorf("invalid ID %q: must be a non-negative integer", s)
	}
	return int(id64), nil
}

// LooksLikeID reports whether s parses as an ID, so callers can fall back to name lookup.
func LooksLikeID(s string) bool {
	_, err := ParseID(s)
	return err == nil
}

// ValidateTerm validates a free-text segment (name, search term, natural area type).
func ValidateTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("term cannot be empty")
	}
	length := utf8.RuneCountInString(term)
	if length > MaxTermLength {
		return fmt.Errorf("term exceeds maximum length of %d characters (got %d)", MaxTermLength, length)
	}
	for _, r := range term {
		if unicode.IsControl(r) {
			return fmt.Errorf("term contains control character %U", r)
		}
	}
	return nil
}

// ValidateConcurrency checks the worker count for multi-ID fetches.
func ValidateConcurrency(n int) error {
	if n < 1 || n > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, n)
	}
	return nil
}

// ValidateListenAddr checks a host:port pair for the gateway listener.
func ValidateListenAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("invalid listen port %q", port)
	}
	if host != "" && net.ParseIP(host) == nil && host != "localhost" {
		return fmt.Errorf("invalid listen host %q: must be an IP address or localhost", host)
	}
	return nil
}
