package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	OAuth   OAuthConfig
	Browser BrowserConfig
	Probe   ProbeConfig
	Log     LogConfig
}

// OAuthConfig identifies the provider endpoints and the client the
// probe impersonates. The defaults target Cloudflare's dashboard OAuth
// flow with the MCP portal client registration.
type OAuthConfig struct {
	// ClientID is the registered OAuth client id.
	ClientID string

	// RedirectURI is the registered callback URL.
	RedirectURI string

	// AuthURL is the provider's authorization endpoint.
	AuthURL string

	// CallbackURL is the substring identifying the callback endpoint in
	// a final page URL (host + path, no scheme).
	CallbackURL string

	// DashboardHost is the provider's dashboard hostname; landing there
	// after an attempt counts as an accepted request.
	DashboardHost string
}

// BrowserConfig controls the Rod browser instance. The browser always
// runs headed: the operator has to log in by hand before the probe can
// reuse the session.
type BrowserConfig struct {
	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects the stealth JS before navigation so the
	// provider's bot checks don't interfere with the manual login.
	Stealth bool // default: true

	// ExtraHeaders is a list of "Name=Value" pairs applied to every
	// request the probe page makes.
	ExtraHeaders []string
}

// ProbeConfig controls timing of the attempt loop.
type ProbeConfig struct {
	// NavTimeout is the deadline for a single navigation.
	NavTimeout time.Duration // default: 30s

	// SettleDelay is the passive wait after navigation for client-side
	// redirects to land on the consent form.
	SettleDelay time.Duration // default: 3s

	// RedirectDelay is the passive wait after a consent click for the
	// final redirect to the callback.
	RedirectDelay time.Duration // default: 2s

	// SelectorTimeout is the per-selector deadline when hunting for the
	// consent form's allow button.
	SelectorTimeout time.Duration // default: 2s

	// CountInterval is the pause between scope-count attempts.
	CountInterval time.Duration // default: 1500ms

	// SweepInterval is the pause between per-scope sweep attempts.
	SweepInterval time.Duration // default: 1s

	// LoginPollInterval is how often the login gate samples the page URL.
	LoginPollInterval time.Duration // default: 1s

	// LoginMaxPolls bounds the login gate; on exhaustion the probe logs
	// a warning and proceeds with whatever session state exists.
	LoginMaxPolls int // default: 300 (5 minutes)
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		OAuth: OAuthConfig{
			ClientID:      envOr("SCOPEPROBE_CLIENT_ID", "2d0ad4d1-1d40-4767-9538-dc1a91f94773"),
			RedirectURI:   envOr("SCOPEPROBE_REDIRECT_URI", "https://mcp.cloudflare.com/oauth/callback"),
			AuthURL:       envOr("SCOPEPROBE_AUTH_URL", "https://dash.cloudflare.com/oauth2/auth"),
			CallbackURL:   envOr("SCOPEPROBE_CALLBACK_URL", "mcp.cloudflare.com/oauth/callback"),
			DashboardHost: envOr("SCOPEPROBE_DASHBOARD_HOST", "dash.cloudflare.com"),
		},
		Browser: BrowserConfig{
			NoSandbox:    envBoolOr("SCOPEPROBE_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("SCOPEPROBE_BROWSER_BIN"),
			Stealth:      envBoolOr("SCOPEPROBE_STEALTH", true),
			ExtraHeaders: envSliceOr("SCOPEPROBE_EXTRA_HEADERS", nil),
		},
		Probe: ProbeConfig{
			NavTimeout:        envDurationOr("SCOPEPROBE_NAV_TIMEOUT", 30*time.Second),
			SettleDelay:       envDurationOr("SCOPEPROBE_SETTLE_DELAY", 3*time.Second),
			RedirectDelay:     envDurationOr("SCOPEPROBE_REDIRECT_DELAY", 2*time.Second),
			SelectorTimeout:   envDurationOr("SCOPEPROBE_SELECTOR_TIMEOUT", 2*time.Second),
			CountInterval:     envDurationOr("SCOPEPROBE_COUNT_INTERVAL", 1500*time.Millisecond),
			SweepInterval:     envDurationOr("SCOPEPROBE_SWEEP_INTERVAL", time.Second),
			LoginPollInterval: envDurationOr("SCOPEPROBE_LOGIN_POLL_INTERVAL", time.Second),
			LoginMaxPolls:     envIntOr("SCOPEPROBE_LOGIN_MAX_POLLS", 300),
		},
		Log: LogConfig{
			Level:  envOr("SCOPEPROBE_LOG_LEVEL", "info"),
			Format: envOr("SCOPEPROBE_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
