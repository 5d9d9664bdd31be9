package scan_test

import (
	"testing"

	"github.com/reconova/reconova/internal/scan"
	"github.com/stretchr/testify/assert"
)

func TestValidTarget(t *testing.T) {
	valid := []string{
		"example.com",
		"sub.example.co.uk",
		"192.168.1.1",
		"10.0.0.0/8",
		"2001:db8::1",
	}
	for _, target := range valid {
		assert.True(t, scan.ValidTarget(target), "expected %q to be valid", target)
	}

	invalid := []string{
		"",
		"example",
		"example.com; rm -rf /",
		"exa mple.com",
		"http://example.com",
		"-example.com",
	}
	for _, target := range invalid {
		assert.False(t, scan.ValidTarget(target), "expected %q to be invalid", target)
	}
}

func TestValidTool(t *testing.T) {
	valid := []string{"nmap", "sub-finder", "httpx", "tool_v2.1"}
	for _, name := range valid {
		assert.True(t, scan.ValidTool(name), "expected %q to be valid", name)
	}

	invalid := []string{"", "rm -rf", "/usr/bin/nmap", "tool;id", "-flag"}
	for _, name := range invalid {
		assert.False(t, scan.ValidTool(name), "expected %q to be invalid", name)
	}
}

func TestValidateScanInput(t *testing.T) {
	assert.NoError(t, scan.ValidateScanInput("example.com", "nmap"))

	err := scan.ValidateScanInput("bad target", "nmap")
	assert.ErrorIs(t, err, scan.ErrInvalidInput)

	err = scan.ValidateScanInput("example.com", "bad tool")
	assert.ErrorIs(t, err, scan.ErrInvalidInput)
}
