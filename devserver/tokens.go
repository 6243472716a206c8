package devserver

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	// Session tokens expire at 60 minutes; the client refreshes at 50.
	defaultAccessTokenTTL  = 60 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
)

// tokenIssuer mints and verifies the HMAC-SHA256 session tokens carried in
// the cookies.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowTime    func() time.Time
}

func newTokenIssuer(secret string, nowTime func() time.Time) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  defaultAccessTokenTTL,
		refreshTTL: defaultRefreshTokenTTL,
		nowTime:    nowTime,
	}
}

func (t *tokenIssuer) mint(account *Account, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":        strconv.FormatInt(account.ID, 10),
		"email":      account.Email,
		"token_type": tokenType,
		"iat":        t.nowTime().Unix(),
		"exp":        t.nowTime().Add(ttl).Unix(),
		"jti":        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (t *tokenIssuer) MintAccessToken(account *Account) (string, error) {
	return t.mint(account, accessTokenType, t.accessTTL)
}

func (t *tokenIssuer) MintRefreshToken(account *Account) (string, error) {
	return t.mint(account, refreshTokenType, t.refreshTTL)
}

// Verify parses a signed token, checks the signature and expiry, and
// returns the subject account id when the token is of the expected type.
func (t *tokenIssuer) Verify(signed, expectedType string) (int64, error) {
	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.nowTime))
	if err != nil {
		return 0, errors.Wrap(err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != expectedType {
		return 0, errors.Errorf("wrong token type %q", tokenType)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return 0, errors.Wrap(err, "token has no subject")
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "malformed subject")
	}
	return id, nil
}
