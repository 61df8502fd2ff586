// Package probe drives authorization attempts through a live browser
// session and searches for the provider's scope limits.
package probe

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/use-agent/scopeprobe/models"
)

// errorPhrases are the known invalid-scope / request-too-large markers
// scanned for (case-insensitively) in rendered page text when the URL
// alone does not settle the outcome.
var errorPhrases = []string{
	"invalid_scope", "invalid scope", "unknown scope",
	"the requested scope is invalid",
	"request-uri too large", "414", "413",
}

// Classifier maps a settled page state to an attempt outcome. It is a
// pure rule chain so outcomes can be tested without a browser.
type Classifier struct {
	// CallbackURL is the host+path substring that identifies the
	// registered callback endpoint in a final page URL.
	CallbackURL string

	// DashboardHost is the provider's dashboard hostname.
	DashboardHost string
}

// Classify applies the outcome rules in strict precedence order:
//
//  1. callback URL with a code and no error parameter  -> success
//  2. any error parameter                              -> failure, provider detail
//  3. still on the consent screen, no error            -> success, "consent-shown"
//  4. known error phrase in the page body              -> failure, body excerpt
//  5. still on the dashboard host                      -> success
//  6. fall back to the navigation HTTP status          -> success iff status < 400
//
// Rule 3 is the documented oddity: the provider accepted the scope set
// but the flow stopped short of the callback redirect, which still
// answers the question the probe is asking.
func (c Classifier) Classify(st models.PageState) (success bool, detail string) {
	hitCallback := strings.Contains(st.FinalURL, c.CallbackURL)
	hasCode := strings.Contains(st.FinalURL, "code=")
	hasError := strings.Contains(st.FinalURL, "error=")

	switch {
	case hitCallback && hasCode && !hasError:
		return true, ""
	case hasError:
		return false, errorFromQuery(st.FinalURL)
	case strings.Contains(st.FinalURL, "consent"):
		return true, "consent-shown"
	}

	bodyLower := strings.ToLower(st.BodyText)
	for _, phrase := range errorPhrases {
		if strings.Contains(bodyLower, phrase) {
			return false, strings.TrimSpace(truncate(st.BodyText, 200))
		}
	}

	if strings.Contains(st.FinalURL, c.DashboardHost) {
		return true, ""
	}

	if st.Status < 400 {
		return true, ""
	}
	return false, fmt.Sprintf("status=%d url=%s", st.Status, truncate(st.FinalURL, 100))
}

// errorFromQuery pulls the provider's error detail off the final URL,
// preferring error_description over error, defaulting to "unknown".
func errorFromQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	q := u.Query()
	if d := q.Get("error_description"); d != "" {
		return d
	}
	if e := q.Get("error"); e != "" {
		return e
	}
	return "unknown"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
