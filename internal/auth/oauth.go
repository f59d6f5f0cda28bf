// Package auth: GitHub sign-in.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. GET /auth/github/login: the server stores a random state in a short-lived
//     cookie and redirects the browser to GitHub with ClientID, scopes and
//     that state.
//  2. The user approves (or refuses) on github.com.
//  3. GitHub redirects to the callback URL with ?code=...&state=...
//  4. The callback handler checks state against the cookie, then the server
//     trades the code for an access token in a direct call to GitHub that
//     carries the ClientSecret.
//  5. The server calls GitHub's /user API with that token, finds or creates
//     the local account and issues the usual session cookie.
//
// WHY EXCHANGE ON THE SERVER?
// The client secret and the GitHub access token never reach the browser.
// The browser only ever sees the one-time code, which is useless without
// the secret. The access token is dropped after step 5; whisper keeps no
// long-lived GitHub credentials.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

// GitHubUser is the part of GitHub's /user response used to link accounts.
// GitHub returns far more; only these fields are decoded.
//
// ID is stable for the life of the GitHub account and is what links it to a
// local user. Login can be renamed on GitHub, so it only seeds the username
// the first time the account is created.
//
// API docs: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// GitHubProvider runs the OAuth authorization code flow against GitHub.
type GitHubProvider struct {
	config  *oauth2.Config
	userURL string
}

// NewGitHubProvider needs the credentials of a GitHub OAuth App, registered
// under Settings > Developer settings > OAuth Apps.
//
// callbackURL must equal the app's "Authorization callback URL" exactly,
// e.g. "http://localhost:8080/auth/github/callback".
//
// Scope: "read:user" is enough for id and login. Email is not requested
// because whisper accounts have no email address.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		userURL: githubUserURL,
	}
}

// AuthURL is where the login handler redirects the browser.
//
// STATE PARAMETER:
// state is a random value the handler also puts in a cookie. GitHub echoes
// it on the callback, and the handler rejects the callback unless the two
// match. Without it, an attacker could make a victim's browser finish an
// OAuth flow the attacker started and land in the attacker's account (login
// CSRF).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the flow for the callback handler:
//  1. trade the code for an access token (server to server)
//  2. call GET /user with that token
//  3. decode the profile and reject one without an id or login
//
// The caller links the profile to a local account and issues the session.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building GitHub /user request: %w", err)
	}
	resp, err := p.config.Client(ctx, oauthToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}
	if ghUser.ID == 0 || ghUser.Login == "" {
		return nil, fmt.Errorf("auth: GitHub returned an incomplete user")
	}
	return &ghUser, nil
}
