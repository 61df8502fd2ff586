package models

// AttemptResult records the outcome of one authorization attempt.
// Results are immutable once created and collected in attempt order
// for the final summary.
type AttemptResult struct {
	// NumScopes is the number of scopes requested; always len(Scopes).
	NumScopes int

	// URLLength is the length of the authorization URL in characters.
	URLLength int

	// Success reports whether the provider accepted the scope set.
	Success bool

	// Scopes is the exact ordered scope list that was requested.
	Scopes []string

	// Error holds the failure detail, empty on success. The one
	// exception is the literal "consent-shown": the provider accepted
	// the scopes but the flow stopped on the consent screen instead of
	// completing the callback redirect, which still counts as success.
	Error string

	// FinalURL is the page URL observed after the attempt settled.
	FinalURL string

	// PageTitle is the document title observed after the attempt settled.
	PageTitle string
}

// PageState is a snapshot of the browser page after an authorization
// attempt settled. It is everything the outcome classifier looks at,
// so classification can run without a live browser.
type PageState struct {
	FinalURL string
	Title    string
	BodyText string
	Status   int
}

// BrokenScope pairs a scope identifier with the error it produced
// during the per-scope sweep.
type BrokenScope struct {
	Scope string
	Error string
}
