// Package session は署名付きセッショントークンの発行を提供する。
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はセッショントークンに埋め込むクレーム。
// サブジェクトはSpotifyのユーザーID。
type Claims struct {
	jwt.RegisteredClaims
	ID string `json:"id"`
}

// Issuer はHMAC-SHA256で署名したJWTセッショントークンを発行する。
// トークンはステートレスで、サーバー側には保持されない。失効機構は持たない。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer はIssuerを生成する。nowがnilの場合はtime.Nowを使用する。
func NewIssuer(secret string, ttl time.Duration, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue はsubjectIDを埋め込んだトークンを発行する。有効期限はTTL経過後。
func (i *Issuer) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject ID is required")
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		ID: subjectID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証し、クレームを返す。
// 検証エンドポイントは公開しないが、プロセス内の協調コンポーネントが使用する。
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	return &claims, nil
}
