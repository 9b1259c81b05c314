package tokenenvelope

import (
	"accounts/internal/core/domain/user"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	jwt.RegisteredClaims
	Token   string       `json:"tkn"`
	Purpose user.Purpose `json:"pur"`
}

// JWT seals tokens into HS256 signed JWTs. The expiry is not put into the
// claims, it is checked against the account record.
type JWT struct {
	secret []byte
	issuer string
}

func NewJWT(secret string, issuer string) *JWT {
	if secret == "" {
		panic("JWT secret must not be empty")
	}
	return &JWT{secret: []byte(secret), issuer: issuer}
}

func (j *JWT) Seal(userID user.ID, token user.Token) (user.SealedToken, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  j.issuer,
			Subject: strconv.FormatInt(int64(userID), 10),
		},
		Token:   string(token.Value),
		Purpose: token.Purpose,
	})
	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return user.SealedToken(signed), nil
}

func (j *JWT) Open(sealed user.SealedToken) (opened user.OpenedToken, err error) {
	c := &claims{}
	_, err = jwt.ParseWithClaims(
		string(sealed),
		c,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
	)
	if err != nil {
		return opened, fmt.Errorf("%w: %v", user.ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || c.Token == "" || !c.Purpose.IsValid() {
		return opened, user.ErrInvalidToken
	}
	return user.OpenedToken{
		UserID:  user.ID(id),
		Value:   user.TokenValue(c.Token),
		Purpose: c.Purpose,
	}, nil
}
