package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken は署名不一致または形式不正のトークンを示す。
var ErrInvalidToken = errors.New("invalid token")

// tokenClaims はトークンに埋め込むクレームセット。
// 有効期限は設定しない（ステートレスなセッショントークンであり、
// サーバー側での失効手段を持たない）。
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService はHMAC-SHA256署名付きトークンの発行と検証を行う。
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue は指定ユーザー名を埋め込んだ署名付きトークンを発行する。
func (s *TokenService) Issue(username string) (string, error) {
	claims := &tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名を検証し、埋め込まれたユーザー名を返す。
// 形式不正・署名不一致の場合はErrInvalidTokenを返す。
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}

	return claims.Username, nil
}
