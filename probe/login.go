package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/scopeprobe/models"
)

// loginState is the gate's observed session state.
type loginState int

const (
	awaitingLogin loginState = iota
	authenticated
)

// LoginGate blocks the probe until the operator has logged in by hand.
// It polls the page URL on a fixed interval with a bounded number of
// attempts; on exhaustion the caller is expected to log a warning and
// proceed with whatever session exists rather than abort.
type LoginGate struct {
	// CallbackHost is the callback endpoint's hostname; a redirect
	// there means the whole login flow completed.
	CallbackHost string

	// DashboardHost is the provider's dashboard hostname.
	DashboardHost string

	PollInterval time.Duration
	MaxPolls     int

	// SettleDelay is applied after login is detected on a dashboard
	// page, giving post-login redirects time to finish.
	SettleDelay time.Duration
}

// classify decides the session state from the page URL alone. Being on
// the dashboard counts as logged in unless it is the login page or the
// authorize endpoint itself (both render before authentication).
func (g LoginGate) classify(pageURL string) loginState {
	if strings.Contains(pageURL, g.CallbackHost) {
		return authenticated
	}
	if strings.Contains(pageURL, g.DashboardHost) &&
		!strings.Contains(pageURL, "/login") &&
		!strings.Contains(pageURL, "/oauth2/auth") {
		return authenticated
	}
	return awaitingLogin
}

// Wait polls until the operator finishes logging in. Returns a
// LOGIN_TIMEOUT ProbeError when the poll budget runs out, or the
// context error if the context ends first.
func (g LoginGate) Wait(ctx context.Context, page *rod.Page) error {
	for i := 0; i < g.MaxPolls; i++ {
		if err := sleepCtx(ctx, g.PollInterval); err != nil {
			return err
		}

		current := pageURL(page.Context(ctx))
		if g.classify(current) != authenticated {
			continue
		}

		if strings.Contains(current, g.CallbackHost) {
			slog.Info("login detected: redirected to callback")
			return nil
		}
		slog.Info("login detected", "url", truncate(current, 80))
		return sleepCtx(ctx, g.SettleDelay)
	}
	return models.NewProbeError(models.ErrCodeLoginTimeout,
		"gave up waiting for login", nil)
}
