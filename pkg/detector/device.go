package detector

import "strings"

// DetectDeviceType classifies a user-agent string into a coarse device
// bucket for click analytics. Order matters: bots often spoof desktop
// tokens, so they are checked first.
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, keyword := range []string{"bot", "crawler", "spider", "scraper", "curl", "wget", "python-requests"} {
		if strings.Contains(ua, keyword) {
			return "bot"
		}
	}

	for _, keyword := range []string{"tablet", "ipad"} {
		if strings.Contains(ua, keyword) {
			return "tablet"
		}
	}

	for _, keyword := range []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone"} {
		if strings.Contains(ua, keyword) {
			return "mobile"
		}
	}

	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") || strings.Contains(ua, "x11") {
		return "desktop"
	}

	return "unknown"
}

// GetClientIP picks the client address the same way the gateway would:
// first hop of X-Forwarded-For, then X-Real-IP, then the socket peer.
func GetClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xRealIP != "" {
		return xRealIP
	}

	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}
