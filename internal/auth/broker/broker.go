package broker

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/metrics"
	"auth-gateway/internal/session"
)

const unknownProviderLabel = "unknown"

// Broker drives the authorization-code flow for existing sessions.
// A session must already exist (created by the keyword check) before
// Begin will hand the browser to the provider.
type Broker struct {
	providers  *provider.Registry
	store      session.Store
	landingURL string
	failureURL string
	metrics    *metrics.Metrics
}

func New(
	registry *provider.Registry,
	store session.Store,
	landingURL string,
	failureURL string,
	m *metrics.Metrics,
) (*Broker, error) {
	if registry == nil || store == nil {
		return nil, errors.New("broker: registry and store are required")
	}
	if _, err := url.Parse(landingURL); err != nil || landingURL == "" {
		return nil, fmt.Errorf("broker: invalid landing url %q", landingURL)
	}
	if failureURL == "" {
		return nil, errors.New("broker: failure url is required")
	}

	return &Broker{
		providers:  registry,
		store:      store,
		landingURL: landingURL,
		failureURL: failureURL,
		metrics:    m,
	}, nil
}

// Begin returns the provider authorization URL for sessionID. The session
// is checked first: auth.ErrUnauthorized when it does not exist, then
// provider.ErrUnknownProvider for an unregistered provider name.
func (b *Broker) Begin(ctx context.Context, providerName, sessionID string) (string, error) {
	if sessionID == "" {
		return "", auth.ErrUnauthorized
	}

	exists, err := b.store.Exists(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("broker: load session: %w", err)
	}
	if Next(NoSession, sessionEvent(exists)) != PendingAuthorization {
		return "", auth.ErrUnauthorized
	}

	p, err := b.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	return p.AuthCodeURL(sessionID), nil
}

// Result is the outcome of a callback. RedirectURL is always set: the
// landing page on success, the failure page otherwise.
type Result struct {
	State       State
	RedirectURL string
	Err         error
}

// Complete handles the provider callback. It never returns a raw error to
// the caller: failures end in the Failed state with a redirect to the
// failure URL and leave the session untouched.
func (b *Broker) Complete(ctx context.Context, providerName, code, sessionID string) Result {
	res := b.complete(ctx, providerName, code, sessionID)

	b.metrics.OAuthLogin(b.providerLabel(providerName), res.State.String())

	if res.Err != nil {
		logger.Error("oauth callback failed", map[string]any{
			"provider": providerName,
			"error":    res.Err.Error(),
		})
	}

	return res
}

func (b *Broker) complete(ctx context.Context, providerName, code, sessionID string) Result {
	state := NoSession

	p, err := b.providers.Get(providerName)
	if err != nil {
		return b.fail(err)
	}

	var sess *session.Session
	if sessionID != "" {
		sess, err = b.store.Get(ctx, sessionID)
		if err != nil {
			return b.fail(fmt.Errorf("load session: %w", err))
		}
	}

	if state = Next(state, sessionEvent(sess != nil)); state == Failed {
		return b.fail(auth.ErrUnauthorized)
	}

	if state = Next(state, codeEvent(code)); state == Failed {
		return b.fail(errors.New("callback missing code"))
	}

	token, err := p.ExchangeCode(ctx, code, sessionID)
	if state = Next(state, upstreamEvent(err, TokenExchanged)); state == Failed {
		return b.fail(fmt.Errorf("%w: %w", auth.ErrUpstream, err))
	}

	identity, err := p.FetchUser(ctx, token)
	if state = Next(state, upstreamEvent(err, UserFetched)); state == Failed {
		return b.fail(fmt.Errorf("%w: %w", auth.ErrUpstream, err))
	}

	// Merge into the record read above; KeywordValid carries over as-is.
	sess.UserData = identity
	if err := b.store.Set(ctx, *sess); err != nil {
		return b.fail(fmt.Errorf("store session: %w", err))
	}

	logger.Info("oauth login completed", map[string]any{
		"provider": providerName,
		"login":    identity.Login,
	})

	return Result{State: state, RedirectURL: b.landing(sessionID)}
}

// providerLabel keeps metric labels bounded to registered providers; the
// route parameter is caller controlled.
func (b *Broker) providerLabel(name string) string {
	if _, err := b.providers.Get(name); err != nil {
		return unknownProviderLabel
	}
	return name
}

func (b *Broker) fail(err error) Result {
	return Result{State: Failed, RedirectURL: b.failureURL, Err: err}
}

// landing appends the session id to the landing URL.
func (b *Broker) landing(sessionID string) string {
	u, err := url.Parse(b.landingURL)
	if err != nil {
		return b.landingURL
	}
	q := u.Query()
	q.Set(session.QueryParam, sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

func sessionEvent(found bool) Event {
	if found {
		return SessionFound
	}
	return SessionMissing
}

func codeEvent(code string) Event {
	if code == "" {
		return CodeMissing
	}
	return CodeArrived
}

func upstreamEvent(err error, success Event) Event {
	if err != nil {
		return UpstreamFailed
	}
	return success
}
