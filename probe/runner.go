package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"golang.org/x/time/rate"

	"github.com/use-agent/scopeprobe/authurl"
	"github.com/use-agent/scopeprobe/config"
	"github.com/use-agent/scopeprobe/models"
)

// Runner drives single authorization attempts through the one shared
// browser page. The page must already hold an authenticated provider
// session (see LoginGate); attempts reuse it without re-login.
//
// Attempts run strictly sequentially; the Runner is not safe for
// concurrent use and does not need to be.
type Runner struct {
	page    *rod.Page
	builder authurl.Builder
	cls     Classifier
	limiter *rate.Limiter
	cfg     config.ProbeConfig
}

// NewRunner wires an attempt runner over the given live page.
func NewRunner(page *rod.Page, builder authurl.Builder, cls Classifier, cfg config.ProbeConfig) *Runner {
	return &Runner{
		page:    page,
		builder: builder,
		cls:     cls,
		limiter: rate.NewLimiter(rate.Every(cfg.CountInterval), 1),
		cfg:     cfg,
	}
}

// SetPace changes the minimum spacing between attempts (the sweep
// phase runs on a shorter interval than the count phase).
func (r *Runner) SetPace(interval time.Duration) {
	r.limiter.SetLimit(rate.Every(interval))
}

// Run performs one authorization attempt for the given scope list and
// classifies the outcome. Every failure mode — navigation error,
// timeout, closed page — is caught here and recorded on the result;
// a broken attempt never aborts the probe.
func (r *Runner) Run(ctx context.Context, scopes []string) models.AttemptResult {
	authURL := r.builder.Build(scopes)
	result := models.AttemptResult{
		NumScopes: len(scopes),
		URLLength: len(authURL),
		Scopes:    append([]string(nil), scopes...),
	}

	if err := r.limiter.Wait(ctx); err != nil {
		result.Error = truncate(err.Error(), 200)
		return result
	}

	st, err := r.observe(ctx, authURL)
	if err != nil {
		slog.Debug("attempt failed before classification",
			"numScopes", result.NumScopes, "error", err)
		result.Error = truncate(err.Error(), 200)
		return result
	}

	result.FinalURL = st.FinalURL
	result.PageTitle = st.Title
	result.Success, result.Error = r.cls.Classify(st)
	return result
}

// observe navigates to the authorization URL, walks the consent screen
// if one appears, and snapshots the settled page state.
//
// Lifecycle:
//
//  1. Navigation deadline       – hard bound on Navigate + DOM wait
//  2. Navigate                  – triggers the authorization request
//  3. DOM wait + settle delay   – let client-side redirects land
//  4. Consent click             – approve the scope grant if asked
//  5. Redirect delay            – let the callback redirect finish
//  6. Snapshot                  – URL, title, body text, HTTP status
//
// Steps 4–6 are best-effort: a vanished consent button or a failed
// title read degrade the snapshot instead of failing the attempt.
func (r *Runner) observe(ctx context.Context, authURL string) (models.PageState, error) {
	// ── 1-2. Navigate under its own deadline ───────────────────────
	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavTimeout)
	p := r.page.Context(navCtx)

	if err := p.Navigate(authURL); err != nil {
		cancel()
		return models.PageState{}, categorizeError(err, "navigation to authorization URL failed")
	}

	// ── 3. Wait for the DOM, then a passive settle delay ───────────
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", err)
	}
	cancel()

	if err := sleepCtx(ctx, r.cfg.SettleDelay); err != nil {
		return models.PageState{}, err
	}

	// ── 4. Approve the consent screen if we landed on one ──────────
	r.clickConsentIfShown(ctx)

	// ── 5. Let the final redirect land ─────────────────────────────
	if err := sleepCtx(ctx, r.cfg.RedirectDelay); err != nil {
		return models.PageState{}, err
	}

	// ── 6. Snapshot the page (best-effort fields) ──────────────────
	p = r.page.Context(ctx)
	st := models.PageState{
		FinalURL: pageURL(p),
		Title:    evalStringOrEmpty(p, `() => document.title`),
		Status:   navStatus(p),
	}
	if rawHTML, err := p.HTML(); err == nil {
		st.BodyText = VisibleText(rawHTML)
	} else {
		slog.Debug("failed to read page HTML, classifying without body text",
			"error", err)
	}
	return st, nil
}

// pageURL reads the page's current location, "" on failure.
func pageURL(p *rod.Page) string {
	return evalStringOrEmpty(p, `() => window.location.href`)
}

// evalStringOrEmpty evaluates a JS expression and returns the string
// result, swallowing any errors (useful for optional metadata).
func evalStringOrEmpty(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// navStatus reads the navigation's HTTP status from the performance
// API, which works without any CDP event listeners. 0 when unknown.
func navStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// sleepCtx is a context-aware passive delay.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// categorizeError wraps raw errors into typed ProbeErrors so log lines
// and result records carry a stable error code.
func categorizeError(err error, msg string) *models.ProbeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewProbeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewProbeError(models.ErrCodeTimeout, "attempt canceled", err)
	default:
		return models.NewProbeError(models.ErrCodeNavigation, msg, err)
	}
}
