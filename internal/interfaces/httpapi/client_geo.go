package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Edge proxies disagree on where they put the caller's address and country,
// so both lookups walk the known headers in trust order.
var (
	clientIPHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}
	countryHeaders  = []string{
		"Fly-Client-Country",
		"CF-IPCountry",
		"X-Vercel-IP-Country",
		"CloudFront-Viewer-Country",
	}
)

func resolveClientIP(ctx context.Context, r *http.Request) string {
	_ = ctx

	for _, header := range clientIPHeaders {
		if ip := normalizeIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	return normalizeIP(r.RemoteAddr)
}

func resolveCountryCode(ctx context.Context, r *http.Request) string {
	_ = ctx

	for _, header := range countryHeaders {
		if code := normalizeCountry(r.Header.Get(header)); code != "" {
			return code
		}
	}

	return "ZZ"
}

func normalizeIP(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	// X-Forwarded-For chains append proxies; the first hop is the client.
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}

	if host, _, err := net.SplitHostPort(value); err == nil {
		value = strings.TrimSpace(host)
	}

	parsed := net.ParseIP(value)
	if parsed == nil {
		return ""
	}
	return parsed.String()
}

func normalizeCountry(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}
