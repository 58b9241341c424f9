package identity

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "wealth/internal/errors"
)

// SessionCookie is the cookie the identity provider stores its session token in.
const SessionCookie = "__session"

// Claims are the session token claims issued by the identity provider.
type Claims struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 session tokens signed with the provider's
// secret key.
type JWTProvider struct {
	secret []byte
	issuer string
}

// NewJWTProvider creates a JWTProvider. An empty issuer disables the issuer check.
func NewJWTProvider(secret, issuer string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer}
}

// Authenticate reads the session token from the Authorization header or the
// session cookie and verifies it.
func (p *JWTProvider) Authenticate(r *http.Request) (*Identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}
	if len(p.secret) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidToken, "Identity provider is not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return &Identity{
		ExternalID: claims.Subject,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		Email:      claims.Email,
		ImageURL:   claims.ImageURL,
	}, nil
}

// Issue signs a session token for ident. The identity provider owns token
// issuance in production; this exists for local development and tests.
func (p *JWTProvider) Issue(ident Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
		Email:     ident.Email,
		ImageURL:  ident.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ExternalID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
