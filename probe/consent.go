package probe

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// consentSelectors are the strategies for locating the consent form's
// approve control, in priority order: explicit Allow/Accept/Authorize
// buttons first, generic submit controls last.
var consentSelectors = []struct {
	desc string
	find func(p *rod.Page) (*rod.Element, error)
}{
	{`button "Allow"`, func(p *rod.Page) (*rod.Element, error) { return p.ElementR("button", "/allow/i") }},
	{`button "Accept"`, func(p *rod.Page) (*rod.Element, error) { return p.ElementR("button", "/accept/i") }},
	{`button "Authorize"`, func(p *rod.Page) (*rod.Element, error) { return p.ElementR("button", "/authorize/i") }},
	{`submit button`, func(p *rod.Page) (*rod.Element, error) { return p.Element(`button[type="submit"]`) }},
	{`submit input`, func(p *rod.Page) (*rod.Element, error) { return p.Element(`input[type="submit"]`) }},
}

// clickConsentIfShown approves the provider's consent screen when the
// page is currently on one. Each selector strategy gets a short
// deadline; the first visible match is clicked and the page is given
// time to navigate. A consent screen that cannot be approved is left
// to the classifier, not treated as an error here.
func (r *Runner) clickConsentIfShown(ctx context.Context) {
	current := pageURL(r.page.Context(ctx))
	if !strings.Contains(current, "consent") {
		return
	}

	for _, sel := range consentSelectors {
		selCtx, cancel := context.WithTimeout(ctx, r.cfg.SelectorTimeout)
		el, err := sel.find(r.page.Context(selCtx))
		if err != nil {
			cancel()
			continue
		}

		visible, err := el.Visible()
		if err != nil || !visible {
			cancel()
			continue
		}

		err = el.Click(proto.InputMouseButtonLeft, 1)
		cancel()
		if err != nil {
			slog.Debug("consent control click failed, trying next selector",
				"selector", sel.desc, "error", err)
			continue
		}

		slog.Debug("consent approved", "selector", sel.desc)
		// Give the post-approval navigation time to start.
		_ = sleepCtx(ctx, r.cfg.SettleDelay)
		return
	}
}
