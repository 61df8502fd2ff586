// Command scopeprobe is a one-shot, human-assisted probe of an OAuth
// provider's scope limits. It opens a visible browser, waits for the
// operator to log in, then reuses that session to fire authorization
// requests with growing scope sets: a coarse scan plus binary search
// finds the exact count where the provider gives up, and a per-scope
// sweep finds individually broken scopes.
//
// There are no flags; everything is parameterized by environment
// variables (see the config package).
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/use-agent/scopeprobe/authurl"
	"github.com/use-agent/scopeprobe/browser"
	"github.com/use-agent/scopeprobe/config"
	"github.com/use-agent/scopeprobe/models"
	"github.com/use-agent/scopeprobe/probe"
	"github.com/use-agent/scopeprobe/report"
)

func main() {
	// ── 1. Configuration and logging ────────────────────────────────
	cfg := config.Load()
	initLogger(cfg.Log)

	out := report.New(os.Stdout)
	out.Banner("OAUTH SCOPE LIMIT PROBE")
	out.Printf("Total scopes to test: %d\n\n", len(authurl.AllScopes))

	// ── 2. Launch the visible browser ───────────────────────────────
	br, err := browser.Launch(cfg.Browser)
	if err != nil {
		slog.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer br.Close()

	ctx := context.Background()
	page := br.Page()

	builder := authurl.Builder{
		ClientID:    cfg.OAuth.ClientID,
		RedirectURI: cfg.OAuth.RedirectURI,
		AuthURL:     cfg.OAuth.AuthURL,
	}
	cls := probe.Classifier{
		CallbackURL:   cfg.OAuth.CallbackURL,
		DashboardHost: cfg.OAuth.DashboardHost,
	}

	// ── 3. Manual login gate ────────────────────────────────────────
	// Open the flow with the minimal scope set so the operator can log
	// in; every later attempt reuses the session.
	out.Printf("Opening the provider's OAuth login page...\n")
	out.Printf("Please log in in the browser window.\n\n")
	if err := page.Context(ctx).Navigate(builder.Build(authurl.LoginScopes)); err != nil {
		slog.Error("failed to open login page", "error", err)
		os.Exit(1)
	}

	out.Printf("Waiting for you to log in...\n")
	out.Printf("(The probe continues automatically after login)\n\n")

	gate := probe.LoginGate{
		CallbackHost:  hostOf(cfg.OAuth.CallbackURL),
		DashboardHost: cfg.OAuth.DashboardHost,
		PollInterval:  cfg.Probe.LoginPollInterval,
		MaxPolls:      cfg.Probe.LoginMaxPolls,
		SettleDelay:   cfg.Probe.SettleDelay,
	}
	if err := gate.Wait(ctx, page); err != nil {
		slog.Warn("login not confirmed, continuing anyway", "error", err)
		out.Printf("Timeout waiting for login. Continuing anyway...\n")
	}

	runner := probe.NewRunner(page, builder, cls, cfg.Probe)

	// ── 4. Phase 1: scope-count limit ───────────────────────────────
	out.Printf("\n")
	out.Banner("PHASE 1: SCOPE COUNT LIMIT TEST")
	out.Printf("Testing increasing numbers of scopes to find the breakpoint...\n")
	out.Printf("(Using your authenticated session - no re-login needed)\n\n")

	oracle := func(ctx context.Context, count int) models.AttemptResult {
		return runner.Run(ctx, authurl.AllScopes[:count])
	}

	var results []models.AttemptResult
	for _, count := range probe.CoarseCounts(len(authurl.AllScopes)) {
		r := oracle(ctx, count)
		results = append(results, r)
		out.CountAttemptStart(r.NumScopes, r.URLLength)
		out.AttemptOutcome(r)
	}

	bp := probe.FindBreakpoint(results)
	out.Printf("\n")
	if bp.Found {
		out.Printf(">> BREAKPOINT: Works with %d scopes, fails at %d\n\n", bp.LastOK, bp.FirstFail)
		out.Printf("Binary searching between %d and %d...\n", bp.LastOK, bp.FirstFail)

		lo, hi := probe.BinarySearch(ctx, bp.LastOK, bp.FirstFail, oracle,
			func(r models.AttemptResult) {
				results = append(results, r)
				out.CountAttemptStart(r.NumScopes, r.URLLength)
				out.AttemptOutcome(r)
			})

		out.Printf("\n>> EXACT LIMIT: %d scopes work, %d scopes fail\n", lo, hi)
		out.Printf("   Last working URL length: %d\n", len(builder.Build(authurl.AllScopes[:lo])))
		out.Printf("   First failing URL length: %d\n", len(builder.Build(authurl.AllScopes[:hi])))
	} else {
		out.Printf(">> All scope counts worked (up to %d)!\n", bp.LastOK)
	}

	// ── 5. Phase 2: individual scope sweep ──────────────────────────
	out.Printf("\n")
	out.Banner("PHASE 2: INDIVIDUAL SCOPE TEST")
	out.Printf("Testing each scope individually (base + 1) to find broken scopes...\n\n")

	runner.SetPace(cfg.Probe.SweepInterval)
	working, broken := probe.Sweep(ctx, authurl.AllScopes, authurl.LoginScopes, runner.Run,
		func(scope string, r models.AttemptResult) {
			out.SweepAttemptStart(scope)
			out.SweepOutcome(r)
		})

	// ── 6. Final summary ────────────────────────────────────────────
	out.Printf("\n")
	out.Banner("FINAL SUMMARY")
	out.CountTable(results)
	out.Printf("\n")
	out.BrokenScopes(broken)
	out.Printf("\n")
	out.Summary(len(working)+len(authurl.LoginScopes), len(broken), len(authurl.AllScopes))
}

// hostOf strips the path off a host+path callback identifier.
func hostOf(callbackURL string) string {
	host, _, _ := strings.Cut(callbackURL, "/")
	return host
}

// initLogger configures slog based on the LogConfig. Diagnostics go to
// stderr so the summary tables on stdout stay clean.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
