package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// AuthCookieName is the cookie carrying the dashboard session token.
const AuthCookieName = "token"

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

// SiteOrigin is the public origin used for canonical links and the
// sitemap. Defaults to the first allowed origin when unset.
func SiteOrigin() string {
	if origin := os.Getenv("SITE_ORIGIN"); origin != "" {
		return strings.TrimRight(origin, "/")
	}

	return defaultOrigins[0]
}
