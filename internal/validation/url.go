// Package validation checks user-supplied inputs before they reach the network.
//
// ValidateBaseURL guards the upstream origin the client talks to. It rejects
// cloud metadata endpoints always, and private, loopback and link-local
// targets unless private targets are allowed via COLOMBIA_ALLOW_PRIVATE
// (any value recognized by strconv.ParseBool) or SetAllowPrivate(true).
// Plain http is accepted only for private targets; public origins need https.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// allowPrivate controls whether private/localhost URLs are permitted.
var allowPrivate atomic.Bool

// privateNetworks holds the reserved IP blocks, parsed once at init.
var privateNetworks []*net.IPNet

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("COLOMBIA_ALLOW_PRIVATE")))
	allowPrivate.Store(v)

	privateCIDRs := []string{
		"10.0.0.0/8",      // RFC1918
		"172.16.0.0/12",   // RFC1918
		"192.168.0.0/16",  // RFC1918
		"100.64.0.0/10",   // RFC6598
		"169.254.0.0/16",  // RFC3927
		"192.0.0.0/24",    // RFC6890
		"192.0.2.0/24",    // RFC5737
		"198.18.0.0/15",   // RFC2544
		"198.51.100.0/24", // RFC5737
		"203.0.113.0/24",  // RFC5737
		"240.0.0.0/4",     // RFC1112
		"fc00::/7",        // RFC4193
		"fe80::/10",       // RFC4291
		"ff00::/8",        // RFC4291
		"::1/128",         // RFC4291
		"::/128",          // RFC4291
		"100::/64",        // RFC6666
		"2001:db8::/32",   // RFC3849
	}

	privateNetworks = make([]*net.IPNet, 0, len(privateCIDRs))
	for _, cidr := range privateCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// SetAllowPrivate enables or disables private and localhost base URLs.
// Cloud metadata endpoints stay blocked either way.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private and localhost URLs are currently allowed.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// Resolver looks up host addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

var resolver Resolver = &net.Resolver{}

// ValidateBaseURL validates the upstream base URL. It checks that the URL:
//   - Uses https, or http for an allowed private target
//   - Contains a hostname and no query, fragment or credentials
//   - Does not target cloud metadata endpoints
//   - Does not resolve to private ranges unless allowed
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}
	hostname := parsedURL.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if parsedURL.User != nil {
		return fmt.Errorf("URL must not contain credentials")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("URL must not contain a query or fragment")
	}

	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	private := false
	if isLocalhost(hostname) {
		if !allowPrivate.Load() {
			return fmt.Errorf("localhost URLs are not allowed (use --allow-private)")
		}
		private = true
	} else if ip := net.ParseIP(hostname); ip != nil {
		if err := validateIPAddress(ip); err != nil {
			return err
		}
		private = ip.IsLoopback() || isPrivateIP(ip)
	} else {
		p, err := validateDomainName(hostname)
		if err != nil {
			return err
		}
		private = p
	}

	if parsedURL.Scheme == "http" && !private {
		return fmt.Errorf("plain http is only allowed for private targets; use https")
	}
	return nil
}

func isLocalhost(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	switch lowercase {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return strings.HasSuffix(lowercase, ".localhost")
}

func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	switch lowercase {
	case "169.254.169.254", "metadata.google.internal", "metadata", "instance-data", "fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}

// validateIPAddress rejects reserved addresses; private ones only when not allowed.
func validateIPAddress(ip net.IP) error {
	if ip.String() == "169.254.169.254" {
		return fmt.Errorf("cloud metadata IP address is not allowed")
	}
	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return fmt.Errorf("link-local IP addresses are not allowed")
	}
	if allowPrivate.Load() {
		return nil
	}
	if ip.IsLoopback() {
		return fmt.Errorf("loopback IP addresses are not allowed")
	}
	if isPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// validateDomainName resolves hostname and checks every address. It reports
// whether all addresses are private. Unresolvable names pass as public.
func validateDomainName(hostname string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ips, err := resolver.LookupIP(ctx, "ip", hostname)
	if err != nil || len(ips) == 0 {
		return false, nil
	}

	private := true
	for _, ip := range ips {
		if err := validateIPAddress(ip); err != nil {
			return false, fmt.Errorf("domain %q resolves to forbidden IP %s: %w", hostname, ip.String(), err)
		}
		if !ip.IsLoopback() && !isPrivateIP(ip) {
			private = false
		}
	}
	return private, nil
}
