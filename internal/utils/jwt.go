package utils // package utils provides helper functions for session tokens and password hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

	"github.com/iliyamo/waste-pickup/internal/model"
)

// ErrInvalidToken is the only failure Verify reports.  Malformed, unsigned,
// tampered, expired and wrongly-scoped tokens are indistinguishable to the
// caller.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is the session lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// AccessToken is a signed session token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims are the verified contents of a session token.
type Claims struct {
	SubjectID uint64
	Role      string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and verifies HS256 session tokens with a server-held
// secret.  There is no revocation list: a leaked token stays valid until it
// expires or the secret is rotated.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer returns an issuer for the given secret.  A non-positive
// ttl falls back to DefaultTokenTTL.
func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue builds and signs a token whose claims are sub (the subject id),
// role, exp and iat.
func (s *SessionIssuer) Issue(subjectID uint64, role string) (AccessToken, error) {
	if subjectID == 0 || !model.IsValidRole(role) {
		return AccessToken{}, errors.New("issue token: invalid subject or role")
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(subjectID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Any failure yields ErrInvalidToken and zero Claims.
func (s *SessionIssuer) Verify(raw string) (Claims, error) {
	var sc sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &sc,
		func(t *jwt.Token) (interface{}, error) {
			// Reject anything that is not HMAC before handing out the key.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	id, err := strconv.ParseUint(sc.Subject, 10, 64)
	if err != nil || id == 0 || !model.IsValidRole(sc.Role) {
		return Claims{}, ErrInvalidToken
	}
	return Claims{SubjectID: id, Role: sc.Role, ExpiresAt: sc.ExpiresAt.Time}, nil
}
