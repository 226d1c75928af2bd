package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDeviceType(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "desktop"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", "mobile"},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "tablet"},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", "bot"},
		{"curl/8.4.0", "bot"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDeviceType(tt.ua), "ua=%q", tt.ua)
	}
}

func TestGetClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7", GetClientIP("10.0.0.1:1234", "203.0.113.7, 10.0.0.2", ""))
	assert.Equal(t, "203.0.113.9", GetClientIP("10.0.0.1:1234", "", "203.0.113.9"))
	assert.Equal(t, "10.0.0.1", GetClientIP("10.0.0.1:1234", "", ""))
}
