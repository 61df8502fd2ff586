// Package browser owns the headed Chrome instance the probe drives.
// The browser is always visible: the operator logs in to the provider
// by hand before any automated attempt runs.
package browser

import (
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/scopeprobe/config"
	"github.com/use-agent/scopeprobe/models"
)

// Browser wraps the single Chrome instance and its one probe page.
// All phases of the run share that page sequentially.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
}

// Launch starts a visible Chrome, connects to it, and opens the probe
// page. Launch failure is fatal to the run; there is no fallback.
func Launch(cfg config.BrowserConfig) (*Browser, error) {
	l := launcher.New().
		Headless(false).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// Keep Chrome from advertising automation; the provider's login
	// page refuses sessions it thinks are driven.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewProbeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewProbeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.MustClose()
		return nil, models.NewProbeError(
			models.ErrCodeBrowserCrash,
			"failed to open probe page",
			err,
		)
	}

	// Stealth and headers must be installed before the first
	// navigation; they only apply to navigations that follow.
	if cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", err)
		}
	}

	if headers := parseHeaders(cfg.ExtraHeaders); len(headers) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(headers),
		}).Call(page); err != nil {
			slog.Warn("failed to apply extra headers", "error", err)
		}
	}

	return &Browser{browser: b, page: page}, nil
}

// Page returns the shared probe page.
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Close kills the browser process. Call on shutdown to avoid zombie
// Chrome processes.
func (b *Browser) Close() {
	slog.Info("closing browser")
	b.browser.MustClose()
}

// parseHeaders turns "Name=Value" pairs into a header map, skipping
// malformed entries.
func parseHeaders(pairs []string) map[string]string {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			slog.Warn("ignoring malformed extra header", "entry", pair)
			continue
		}
		headers[name] = value
	}
	return headers
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
