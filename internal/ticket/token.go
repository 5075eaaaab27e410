package ticket

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every structural failure: bad signature, wrong
// signing method, malformed payload, missing fields. Callers never learn
// which, by design the scanner UI only shows "invalid ticket".
var ErrInvalidToken = errors.New("invalid ticket token")

// Claims is the signed payload bound into every credential. The nonce is
// the credential's identity: it is stored on the registration as
// qr_token_id, and a token only redeems while its nonce is still the one
// on record.
type Claims struct {
	UserID  uint   `json:"user_id"`
	EventID uint   `json:"event_id"`
	Nonce   string `json:"nonce"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies credential tokens. Tokens are HMAC-signed so
// the check-in validator can trust the embedded fields without a lookup
// table; only consumption touches the store.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Mint creates a fresh credential identity for (user, event) and returns
// the nonce alongside the signed token. The nonce is what the caller
// persists on the registration.
func (i *Issuer) Mint(userID, eventID uint) (nonce string, token string, err error) {
	nonce = uuid.NewString()
	token, err = i.Sign(userID, eventID, nonce)
	return nonce, token, err
}

// Sign produces the token for an existing credential identity. The claims
// carry no timestamps, so signing the same (user, event, nonce) always
// yields the identical string - ticket pages re-request their artifact on
// every view and must get the same one back.
func (i *Issuer) Sign(userID, eventID uint, nonce string) (string, error) {
	claims := Claims{
		UserID:  userID,
		EventID: eventID,
		Nonce:   nonce,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature and structure and returns the bound claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.EventID == 0 || claims.Nonce == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
