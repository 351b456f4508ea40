package keycloak

import (
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	shopkit "github.com/shopkit/go-shopkit"
)

// Claims is the provider token shape this client understands.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles,omitempty"`
	} `json:"realm_access,omitempty"`
}

// TokenValidator validates provider-issued JWTs against the realm's JWKS
// endpoint and turns them into normalized Identities.
type TokenValidator struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

type TokenValidatorOption func(*TokenValidator)

// WithIssuer pins the expected iss claim.
func WithIssuer(issuer string) TokenValidatorOption {
	return func(v *TokenValidator) { v.issuer = issuer }
}

// WithAudience pins the expected aud claim.
func WithAudience(audience string) TokenValidatorOption {
	return func(v *TokenValidator) { v.audience = audience }
}

func NewTokenValidator(jwksURL string, opts ...TokenValidatorOption) (*TokenValidator, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load provider JWKS")
	}

	v := &TokenValidator{jwks: jwks}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Close stops the background JWKS refresh.
func (v *TokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Validate parses and verifies a raw provider token.
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.jwks.Keyfunc, parserOptions...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(err, errors.CategoryAuth, "token expired").
				WithTextCode(shopkit.TextCodeAuthRejected).
				WithCode(errors.CodeUnauthorized)
		}
		return nil, errors.Wrap(err, errors.CategoryAuth, "token rejected").
			WithTextCode(shopkit.TextCodeAuthRejected).
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("unable to decode token claims", errors.CategoryAuth).
			WithTextCode(shopkit.TextCodeAuthRejected).
			WithCode(errors.CodeUnauthorized)
	}

	return claims, nil
}

// IdentityFromToken builds the normalized Identity held by the session store.
// This is the only place provider claims become application state.
func (v *TokenValidator) IdentityFromToken(tokenString string) (*shopkit.Identity, error) {
	claims, err := v.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}

	issuedAt := time.Now()
	if claims.RegisteredClaims.IssuedAt != nil {
		issuedAt = claims.RegisteredClaims.IssuedAt.Time
	}

	return &shopkit.Identity{
		ID:          claims.RegisteredClaims.Subject,
		Email:       claims.Email,
		DisplayName: displayName,
		Token:       tokenString,
		Roles:       NormalizeRoleNames(claims.RealmAccess.Roles),
		IssuedAt:    issuedAt,
	}, nil
}
