package shopkit

// SessionTokenProvider projects the bearer token out of a SessionStore.
// Pure projection: no independent state, no network access.
type SessionTokenProvider struct {
	sessions *SessionStore
}

var _ TokenProvider = (*SessionTokenProvider)(nil)

func NewSessionTokenProvider(sessions *SessionStore) *SessionTokenProvider {
	return &SessionTokenProvider{sessions: sessions}
}

func (p *SessionTokenProvider) CurrentToken() (string, bool) {
	identity, ok := p.sessions.Get()
	if !ok || identity.Token == "" {
		return "", false
	}
	return identity.Token, true
}

// TokenProviderFunc adapts a function into a TokenProvider.
type TokenProviderFunc func() (string, bool)

func (f TokenProviderFunc) CurrentToken() (string, bool) {
	if f == nil {
		return "", false
	}
	return f()
}
