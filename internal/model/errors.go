// Package model はドメインモデルを定義する。
package model

// UpstreamKind は上流（Spotify）起因の失敗種別を表す。
type UpstreamKind string

const (
	// UpstreamKindAuth はトークン交換でアクセストークンが得られなかったことを示す。
	UpstreamKindAuth UpstreamKind = "auth"
	// UpstreamKindProfile はプロフィール取得でSpotifyがエラーを返したことを示す。
	UpstreamKindProfile UpstreamKind = "profile"
)

// UpstreamError はSpotifyが報告した失敗を表す。
// ハンドラー層で401に変換され、Detailsとしてプロバイダーの生レスポンスを返す。
// それ以外のエラーはすべて500（詳細はログのみ）として扱う。
type UpstreamError struct {
	Kind    UpstreamKind
	Message string
	Details map[string]any
}

// Error はerrorインターフェースを実装する。
func (e *UpstreamError) Error() string {
	return e.Message
}

// NewUpstreamAuthError はトークン交換失敗エラーを生成する。
// detailsにはトークンエンドポイントのレスポンスボディをそのまま渡す。
func NewUpstreamAuthError(details map[string]any) *UpstreamError {
	return &UpstreamError{
		Kind:    UpstreamKindAuth,
		Message: "Failed to get access token from Spotify",
		Details: details,
	}
}

// NewUpstreamProfileError はプロフィール取得失敗エラーを生成する。
// detailsにはプロフィールエンドポイントのレスポンスボディをそのまま渡す。
func NewUpstreamProfileError(details map[string]any) *UpstreamError {
	return &UpstreamError{
		Kind:    UpstreamKindProfile,
		Message: "Invalid access token",
		Details: details,
	}
}
