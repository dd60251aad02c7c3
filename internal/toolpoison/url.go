package toolpoison

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>)]+`)

var allowlistHostSuffixes = []string{"github.com", "npmjs.com", "pypi.org"}
var allowlistHostPrefixes = []string{"api.", "docs.", "www."}

var tunnelHosts = []string{
	"ngrok.io", "ngrok-free.app", "serveo.net", "localtunnel.me",
	"localhost", "127.0.0.1", "0.0.0.0",
	"burpcollaborator.net", "oast.fun", "oast.pro", "interact.sh",
	"webhook.site", "requestbin.com", "pipedream.net",
}

// scanSuspiciousURL implements the suspicious_url category.
func scanSuspiciousURL(field, text string) []DetectionResult {
	if text == "" {
		return nil
	}

	var results []DetectionResult
	seen := make(map[string]bool)

	for _, raw := range urlPattern.FindAllString(text, -1) {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		host := strings.ToLower(parsed.Hostname())

		if isTunnelHost(host) {
			results = append(results, DetectionResult{
				PatternID:   "TP_URL_002",
				Category:    "suspicious_url",
				Severity:    "high",
				Field:       field,
				Title:       "URL points at a tunnelling or interception service",
				Description: "Request-capture and tunnelling services are a common exfiltration and callback channel.",
				Evidence:    fmt.Sprintf("url=%q host=%q", raw, host),
			})
			continue
		}

		if !isAllowlistedHost(host) {
			results = append(results, DetectionResult{
				PatternID:   "TP_URL_001",
				Category:    "suspicious_url",
				Severity:    "medium",
				Field:       field,
				Title:       "URL references a non-allowlisted external host",
				Description: "The URL host is not on the reviewer allowlist and may be a third-party exfiltration or C2 endpoint.",
				Evidence:    fmt.Sprintf("url=%q host=%q", raw, host),
			})
		}
	}

	return results
}

func isTunnelHost(host string) bool {
	for _, h := range tunnelHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func isAllowlistedHost(host string) bool {
	for _, suffix := range allowlistHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	for _, prefix := range allowlistHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return false
}
