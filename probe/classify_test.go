package probe

import (
	"strings"
	"testing"

	"github.com/use-agent/scopeprobe/models"
)

var testClassifier = Classifier{
	CallbackURL:   "mcp.cloudflare.com/oauth/callback",
	DashboardHost: "dash.cloudflare.com",
}

func TestClassify_CallbackWithCode(t *testing.T) {
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://mcp.cloudflare.com/oauth/callback?code=abc&state=xyz",
	})
	if !ok || detail != "" {
		t.Errorf("callback+code should be clean success, got ok=%v detail=%q", ok, detail)
	}
}

func TestClassify_ErrorParamWins(t *testing.T) {
	// An error parameter beats the callback rule even on the callback URL.
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://mcp.cloudflare.com/oauth/callback?code=abc&error=invalid_scope&error_description=bad",
	})
	if ok {
		t.Error("error parameter must classify as failure")
	}
	if detail != "bad" {
		t.Errorf("detail should come from error_description, got %q", detail)
	}
}

func TestClassify_ErrorParamFallsBackToErrorName(t *testing.T) {
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://dash.cloudflare.com/oauth2/auth?error=invalid_request",
	})
	if ok || detail != "invalid_request" {
		t.Errorf("got ok=%v detail=%q, want failure with error name", ok, detail)
	}
}

func TestClassify_ErrorParamUnparseable(t *testing.T) {
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://dash.cloudflare.com/auth?error=%zz",
	})
	if ok || detail != "unknown" {
		t.Errorf("got ok=%v detail=%q, want failure with \"unknown\"", ok, detail)
	}
}

func TestClassify_ConsentShown(t *testing.T) {
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://dash.cloudflare.com/oauth2/consent-form?foo=bar",
	})
	if !ok {
		t.Error("consent screen without error parameter counts as accepted")
	}
	if detail != "consent-shown" {
		t.Errorf("detail = %q, want \"consent-shown\"", detail)
	}
}

func TestClassify_BodyPhrase(t *testing.T) {
	body := "Error: the requested scope is invalid for this client. Please check your configuration."
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://somewhere.example.com/error",
		BodyText: body,
	})
	if ok {
		t.Error("known error phrase in body must classify as failure")
	}
	if !strings.HasPrefix(detail, "Error: the requested scope is invalid") {
		t.Errorf("detail should be the body excerpt, got %q", detail)
	}
}

func TestClassify_BodyPhraseCaseInsensitive(t *testing.T) {
	ok, _ := testClassifier.Classify(models.PageState{
		FinalURL: "https://somewhere.example.com/error",
		BodyText: "REQUEST-URI TOO LARGE",
	})
	if ok {
		t.Error("phrase matching must be case-insensitive")
	}
}

func TestClassify_BodyExcerptTruncated(t *testing.T) {
	body := strings.Repeat("invalid_scope ", 50)
	_, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://somewhere.example.com/error",
		BodyText: body,
	})
	if len(detail) > 200 {
		t.Errorf("body excerpt not truncated: %d chars", len(detail))
	}
}

func TestClassify_DashboardFallback(t *testing.T) {
	ok, detail := testClassifier.Classify(models.PageState{
		FinalURL: "https://dash.cloudflare.com/some/interstitial",
		BodyText: "Loading your account",
	})
	if !ok || detail != "" {
		t.Errorf("dashboard URL should be success, got ok=%v detail=%q", ok, detail)
	}
}

func TestClassify_StatusFallback(t *testing.T) {
	okState := models.PageState{FinalURL: "https://elsewhere.example.com/", Status: 200}
	if ok, _ := testClassifier.Classify(okState); !ok {
		t.Error("status 200 should fall back to success")
	}

	// Status 0 (no response observed) is treated as a weak success, the
	// same as the original heuristic.
	zeroState := models.PageState{FinalURL: "https://elsewhere.example.com/"}
	if ok, _ := testClassifier.Classify(zeroState); !ok {
		t.Error("status 0 should fall back to success")
	}

	failState := models.PageState{FinalURL: "https://elsewhere.example.com/huge", Status: 414}
	ok, detail := testClassifier.Classify(failState)
	if ok {
		t.Error("status 414 should classify as failure")
	}
	if !strings.Contains(detail, "status=414") || !strings.Contains(detail, "elsewhere.example.com") {
		t.Errorf("synthesized detail missing status or URL: %q", detail)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	st := models.PageState{
		FinalURL: "https://dash.cloudflare.com/oauth2/consent-form",
		BodyText: "invalid scope somewhere in the page",
		Status:   500,
	}
	ok1, d1 := testClassifier.Classify(st)
	ok2, d2 := testClassifier.Classify(st)
	if ok1 != ok2 || d1 != d2 {
		t.Error("classification must be deterministic for a fixed page state")
	}
	// Consent rule fires before the body scan.
	if !ok1 || d1 != "consent-shown" {
		t.Errorf("precedence violated: ok=%v detail=%q", ok1, d1)
	}
}
