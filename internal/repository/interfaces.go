// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/spotpoints/internal/model"
)

// UserRepository はユーザードキュメントの永続化インターフェース。
type UserRepository interface {
	// FindBySpotifyID は指定SpotifyIDのユーザーを取得する。見つからない場合はnilを返す。
	FindBySpotifyID(ctx context.Context, spotifyID string) (*model.User, error)

	// CreateIfAbsent はユーザーが存在しない場合のみcandidateを永続化する。
	// 既に存在する場合は保存済みレコードを変更せずに返す。
	// 戻り値のcreatedは新規作成が行われた場合にtrueとなる。
	// 同一ユーザーの同時ログインに対してもポイント採番は1回だけ行われる。
	CreateIfAbsent(ctx context.Context, candidate *model.User) (user *model.User, created bool, err error)
}
