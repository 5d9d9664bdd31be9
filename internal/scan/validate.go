package scan

import (
	"fmt"
	"net"
	"regexp"
)

var (
	// toolNameRe keeps tool names to plain executable names. Anything
	// fancier than that does not belong in a catalog entry and would be
	// a gift to argument injection.
	toolNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,99}$`)

	domainRe = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
)

// ValidTool reports whether name is an acceptable tool name.
func ValidTool(name string) bool {
	return toolNameRe.MatchString(name)
}

// ValidTarget reports whether target is a domain, IP address, or CIDR range.
func ValidTarget(target string) bool {
	if len(target) == 0 || len(target) > 253 {
		return false
	}
	if net.ParseIP(target) != nil {
		return true
	}
	if _, _, err := net.ParseCIDR(target); err == nil {
		return true
	}
	return domainRe.MatchString(target)
}

// ValidateScanInput checks target and tool before any scan work starts.
func ValidateScanInput(target, tool string) error {
	if !ValidTarget(target) {
		return fmt.Errorf("%w: target %q must be a domain, IP, or CIDR", ErrInvalidInput, target)
	}
	if !ValidTool(tool) {
		return fmt.Errorf("%w: tool name %q", ErrInvalidInput, tool)
	}
	return nil
}
