package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const (
	providerName = "github"

	defaultAPIBaseURL = "https://api.github.com"
	defaultTimeout    = 10 * time.Second
)

// Config configures the GitHub OAuth app client. Endpoint, APIBaseURL and
// HTTPClient default to the public GitHub service and are overridable for
// GitHub Enterprise or tests.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	Endpoint   oauth2.Endpoint
	APIBaseURL string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Provider implements the GitHub OAuth app authorization-code flow.
type Provider struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
	httpClient  *http.Client
	timeout     time.Duration
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	if _, err := url.Parse(cfg.RedirectURL); err != nil {
		return nil, fmt.Errorf("github redirect url: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = oauthgithub.Endpoint
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	apiBaseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBaseURL: apiBaseURL,
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// callbackURL appends the session id to the configured redirect URI.
func (p *Provider) callbackURL(sessionID string) string {
	u, err := url.Parse(p.oauthConfig.RedirectURL)
	if err != nil {
		return p.oauthConfig.RedirectURL
	}

	q := u.Query()
	q.Set(session.QueryParam, sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

func (p *Provider) AuthCodeURL(sessionID string) string {
	return p.oauthConfig.AuthCodeURL(
		"",
		oauth2.SetAuthURLParam("redirect_uri", p.callbackURL(sessionID)),
	)
}

// ExchangeCode posts the code with the client credentials to the token
// endpoint. GitHub reports failures as a 200 with an error field, which
// oauth2 surfaces as *oauth2.RetrieveError.
func (p *Provider) ExchangeCode(ctx context.Context, code string, sessionID string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(p.clientContext(ctx), p.timeout)
	defer cancel()

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("redirect_uri", p.callbackURL(sessionID)),
	)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	return token, nil
}

// FetchUser loads /user and, when the profile hides the address, falls back
// to the primary verified entry of /user/emails.
func (p *Provider) FetchUser(ctx context.Context, token *oauth2.Token) (*auth.Identity, error) {
	ctx, cancel := context.WithTimeout(p.clientContext(ctx), p.timeout)
	defer cancel()

	client := p.oauthConfig.Client(ctx, token)

	var identity auth.Identity
	if err := p.getJSON(ctx, client, "/user", &identity); err != nil {
		return nil, fmt.Errorf("github user fetch failed: %w", err)
	}

	if identity.ID == 0 || identity.Login == "" {
		return nil, errors.New("github user response missing id or login")
	}

	if identity.Email == "" {
		logger.Debug("github profile hides email, checking /user/emails", map[string]any{
			"login": identity.Login,
		})

		email, err := p.primaryEmail(ctx, client)
		if err != nil {
			logger.Warn("github email lookup failed", map[string]any{
				"login": identity.Login,
				"error": err.Error(),
			})
		}
		identity.Email = email
	}

	return &identity, nil
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *Provider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (p *Provider) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned HTTP %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// clientContext makes oauth2 use the provider's bounded HTTP client.
func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}
