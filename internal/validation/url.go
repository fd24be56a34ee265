// Package validation checks user-supplied input before it reaches the
// network layer. Server URLs are screened against destinations a pasted
// or scripted URL should never point at, such as cloud metadata
// endpoints and, unless explicitly allowed, private IP ranges.
//
// Private servers can be allowed via the RUNDECK_ALLOW_PRIVATE
// environment variable (any value strconv.ParseBool accepts) or by
// calling SetAllowPrivate(true). Cloud metadata endpoints stay blocked
// either way.
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

var allowPrivate atomic.Bool

// privateNetworks holds pre-parsed reserved IP ranges, built once at
// package load time.
var privateNetworks []*net.IPNet

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("RUNDECK_ALLOW_PRIVATE")))
	allowPrivate.Store(v)

	privateCIDRs := []string{
		"10.0.0.0/8",      // RFC1918
		"172.16.0.0/12",   // RFC1918
		"192.168.0.0/16",  // RFC1918
		"100.64.0.0/10",   // RFC6598 shared address space
		"169.254.0.0/16",  // RFC3927 link local
		"192.0.0.0/24",    // RFC6890
		"192.0.2.0/24",    // RFC5737 documentation
		"198.18.0.0/15",   // RFC2544 benchmarking
		"198.51.100.0/24", // RFC5737 documentation
		"203.0.113.0/24",  // RFC5737 documentation
		"240.0.0.0/4",     // RFC1112 reserved
		"fc00::/7",        // RFC4193 unique local
		"fe80::/10",       // RFC4291 link local
		"ff00::/8",        // RFC4291 multicast
		"::1/128",         // RFC4291 loopback
		"::/128",          // RFC4291 unspecified
		"100::/64",        // RFC6666 discard prefix
		"2001::/32",       // RFC4380 Teredo
		"2001:10::/28",    // RFC4843 ORCHID
		"2001:db8::/32",   // RFC3849 documentation
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

// SetAllowPrivate enables or disables private and localhost server URLs.
// Cloud metadata endpoints remain blocked regardless.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private and localhost server URLs
// are currently allowed.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// ValidateServerURL validates a server URL before credentials are sent
// to it. It checks that the URL:
//   - Uses http or https
//   - Contains a hostname and stays within MaxURLLength
//   - Does not point at localhost or private IP ranges, unless private
//     servers are allowed
//   - Does not target cloud metadata endpoints (always blocked)
func ValidateServerURL(rawURL string) error {
	if rawURL == "" {
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

	if !allowPrivate.Load() && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return validateIPAddress(ip)
	}
	return validateDomainName(hostname)
}

// isLocalhost matches localhost by name only; IP literals are classified
// by validateIPAddress so loopback and unspecified get distinct errors.
func isLocalhost(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	return lowercase == "localhost" || strings.HasSuffix(lowercase, ".localhost")
}

func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	switch lowercase {
	case "169.254.169.254", // AWS, Azure, GCP, DigitalOcean
		"metadata.google.internal", // GCP
		"metadata",                 // generic
		"instance-data",            // AWS
		"fd00:ec2::254":            // AWS IPv6
		return true
	}
	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}

func validateIPAddress(ip net.IP) error {
	// Most specific check first.
	if ip.String() == "169.254.169.254" {
		return fmt.Errorf("cloud metadata IP address is not allowed")
	}

	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}

	if allowPrivate.Load() {
		// Link-local stays blocked even when private IPs are allowed.
		if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return fmt.Errorf("link-local IP addresses are not allowed")
		}
		return nil
	}

	if ip.IsLoopback() {
		return fmt.Errorf("loopback IP addresses are not allowed")
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return fmt.Errorf("link-local IP addresses are not allowed")
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

// validateDomainName resolves a domain and checks every returned IP.
// Resolution failures are not errors: the domain may simply not be
// reachable from where the CLI runs.
func validateDomainName(hostname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resolver := &net.Resolver{}
	ips, err := resolver.LookupIP(ctx, "ip", hostname)
	if err != nil {
		return nil
	}

	for _, ip := range ips {
		if err := validateIPAddress(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", hostname, ip.String(), err)
		}
	}

	return nil
}
