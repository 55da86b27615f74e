// Package model はドメインモデルを定義する。
package model

import (
	"math/rand/v2"
	"time"
)

// ポイント初期値の範囲（両端を含む）。
const (
	MinInitialPoints = 1000
	MaxInitialPoints = 15000
)

// User はSpotifyログイン済みユーザーを表す。
// SpotifyIDを主キーとしてusersコレクションに1ドキュメントずつ永続化される。
type User struct {
	SpotifyID   string
	Email       string
	DisplayName string
	ImageURL    *string // アバター画像が無い場合はnil
	Points      int
	HasClaimed  bool
	CreatedAt   time.Time
}

// NewUser は初回ログイン時のユーザーレコードを生成する。
// Pointsは[MinInitialPoints, MaxInitialPoints]の一様乱数で1回だけ採番され、
// HasClaimedはfalseで初期化される。以降このコアがレコードを変更することはない。
func NewUser(spotifyID, email, displayName string, imageURL *string) *User {
	return &User{
		SpotifyID:   spotifyID,
		Email:       email,
		DisplayName: displayName,
		ImageURL:    imageURL,
		Points:      rollInitialPoints(),
		HasClaimed:  false,
		CreatedAt:   time.Now(),
	}
}

// rollInitialPoints は初期ポイントを一様乱数で採番する。
func rollInitialPoints() int {
	return MinInitialPoints + rand.IntN(MaxInitialPoints-MinInitialPoints+1)
}
