// Package authurl builds provider authorization URLs for scope probing.
//
// Every URL carries a fresh PKCE challenge. The matching verifier is
// thrown away on purpose: the probe never exchanges an authorization
// code for a token, it only watches what the provider does with the
// request.
package authurl

import (
	"encoding/base64"
	"encoding/json"

	"golang.org/x/oauth2"
)

// Builder constructs authorization URLs for a fixed client registration.
type Builder struct {
	ClientID    string
	RedirectURI string
	AuthURL     string
}

// state is the opaque state payload the provider round-trips to the
// callback. It carries the client registration and the literal scope
// list so a callback handler could reconstruct the request.
type state struct {
	ClientID    string   `json:"clientId"`
	RedirectURI string   `json:"redirectUri"`
	Scope       []string `json:"scope"`
}

// GeneratePKCE returns a fresh RFC 7636 verifier and its S256
// challenge. Each call draws new randomness, so two calls never share
// a challenge.
func GeneratePKCE() (verifier, challenge string) {
	verifier = oauth2.GenerateVerifier()
	return verifier, oauth2.S256ChallengeFromVerifier(verifier)
}

// Build serializes an authorization request URL for the given ordered
// scope list. Pure construction: no side effects, no error path.
// Duplicate scopes are passed through as-is.
func (b Builder) Build(scopes []string) string {
	conf := &oauth2.Config{
		ClientID:    b.ClientID,
		RedirectURL: b.RedirectURI,
		Endpoint:    oauth2.Endpoint{AuthURL: b.AuthURL},
		Scopes:      scopes,
	}

	// The verifier is discarded: this flow stops at the authorization
	// response and never calls the token endpoint.
	_, challenge := GeneratePKCE()

	return conf.AuthCodeURL(b.encodeState(scopes),
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// encodeState packs the client registration and scope list into the
// base64 JSON blob the provider echoes back on the callback.
func (b Builder) encodeState(scopes []string) string {
	payload, _ := json.Marshal(state{
		ClientID:    b.ClientID,
		RedirectURI: b.RedirectURI,
		Scope:       scopes,
	})
	return base64.StdEncoding.EncodeToString(payload)
}
