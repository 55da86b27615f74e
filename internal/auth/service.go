// Package auth はSpotify OAuth認証フローとセッショントークン発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/spotpoints/internal/model"
	"github.com/hitoshi/spotpoints/internal/repository"
)

// デフォルト値。プロフィールに該当フィールドが無い場合に使用する。
const (
	defaultEmail       = "Not provided"
	defaultDisplayName = "Unknown User"
)

// SpotifyAPI はSpotify OAuthエンドポイントへのアクセスを抽象化する。
// レスポンスボディはパース済みのまま返し、成否の解釈は呼び出し側が行う。
type SpotifyAPI interface {
	// LoginURL はSpotifyの認可URLを生成する。
	LoginURL() string
	// ExchangeCode は認可コードをトークンエンドポイントに送り、レスポンスをそのまま返す。
	ExchangeCode(ctx context.Context, code string) (map[string]any, error)
	// FetchProfile はアクセストークンでプロフィールを取得し、レスポンスをそのまま返す。
	FetchProfile(ctx context.Context, accessToken string) (map[string]any, error)
}

// TokenIssuer はセッショントークンの発行を抽象化する。
type TokenIssuer interface {
	// Issue はsubjectIDを埋め込んだ署名付きトークンを発行する。
	Issue(subjectID string) (string, error)
}

// MetricsRecorder は認証フローのメトリクス記録を抽象化する。
type MetricsRecorder interface {
	RecordLoginRedirect()
	RecordCallbackOutcome(outcome string)
	RecordExchangeLatency(duration time.Duration)
	RecordUserCreated()
}

// コールバック処理結果のメトリクスラベル。
const (
	OutcomeSuccess        = "success"
	OutcomeAuthFailure    = "upstream_auth_failure"
	OutcomeProfileFailure = "upstream_profile_failure"
	OutcomeInternalError  = "internal_error"
)

// Profile はコールバック成功時にクライアントへ返すプロフィール情報。
type Profile struct {
	Name   string
	Email  string
	Image  *string
	Points int
}

// LoginResult はコールバック処理の結果を表す。
type LoginResult struct {
	Profile Profile
	Token   string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	spotify SpotifyAPI
	repo    repository.UserRepository
	issuer  TokenIssuer
	metrics MetricsRecorder
}

// NewService はServiceを生成する。
func NewService(spotify SpotifyAPI, repo repository.UserRepository, issuer TokenIssuer, metrics MetricsRecorder) *Service {
	return &Service{
		spotify: spotify,
		repo:    repo,
		issuer:  issuer,
		metrics: metrics,
	}
}

// LoginURL はSpotifyの認可URLを生成する。
func (s *Service) LoginURL() string {
	s.metrics.RecordLoginRedirect()
	return s.spotify.LoginURL()
}

// HandleCallback はOAuthコールバックを処理する。
// トークン交換 → プロフィール取得 → ユーザーの取得または作成 → トークン発行を順に行う。
// Spotify起因の失敗は*model.UpstreamErrorとして返し、それ以外のエラーは
// そのままラップして返す（ハンドラー層で500に変換される）。
func (s *Service) HandleCallback(ctx context.Context, code string) (*LoginResult, error) {
	// 1. 認可コードをアクセストークンに交換
	start := time.Now()
	tokenBody, err := s.spotify.ExchangeCode(ctx, code)
	s.metrics.RecordExchangeLatency(time.Since(start))
	if err != nil {
		s.metrics.RecordCallbackOutcome(OutcomeInternalError)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	accessToken, _ := tokenBody["access_token"].(string)
	if accessToken == "" {
		s.metrics.RecordCallbackOutcome(OutcomeAuthFailure)
		return nil, model.NewUpstreamAuthError(tokenBody)
	}

	// 2. アクセストークンでプロフィールを取得
	profileBody, err := s.spotify.FetchProfile(ctx, accessToken)
	if err != nil {
		s.metrics.RecordCallbackOutcome(OutcomeInternalError)
		return nil, fmt.Errorf("failed to fetch spotify profile: %w", err)
	}

	if _, hasErr := profileBody["error"]; hasErr {
		s.metrics.RecordCallbackOutcome(OutcomeProfileFailure)
		return nil, model.NewUpstreamProfileError(profileBody)
	}

	// 3. プロフィールからアイデンティティを抽出
	spotifyID, _ := profileBody["id"].(string)
	if spotifyID == "" {
		s.metrics.RecordCallbackOutcome(OutcomeInternalError)
		return nil, fmt.Errorf("spotify profile has no id field")
	}

	email := stringOrDefault(profileBody, "email", defaultEmail)
	displayName := stringOrDefault(profileBody, "display_name", defaultDisplayName)
	imageURL := firstImageURL(profileBody)

	// 4. ユーザーの取得または作成。既存ユーザーのポイントは再採番されない。
	user, created, err := s.repo.CreateIfAbsent(ctx, model.NewUser(spotifyID, email, displayName, imageURL))
	if err != nil {
		s.metrics.RecordCallbackOutcome(OutcomeInternalError)
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	if created {
		s.metrics.RecordUserCreated()
		slog.Info("new user created",
			slog.String("spotify_id", user.SpotifyID),
			slog.Int("points", user.Points),
		)
	} else {
		slog.Info("existing user logged in",
			slog.String("spotify_id", user.SpotifyID),
		)
	}

	// 5. セッショントークンを発行
	token, err := s.issuer.Issue(user.SpotifyID)
	if err != nil {
		s.metrics.RecordCallbackOutcome(OutcomeInternalError)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.metrics.RecordCallbackOutcome(OutcomeSuccess)

	return &LoginResult{
		Profile: Profile{
			Name:   user.DisplayName,
			Email:  user.Email,
			Image:  user.ImageURL,
			Points: user.Points,
		},
		Token: token,
	}, nil
}

// stringOrDefault はmapから文字列フィールドを取り出す。欠落または空の場合はデフォルト値を返す。
func stringOrDefault(body map[string]any, key, defaultVal string) string {
	if v, ok := body[key].(string); ok && v != "" {
		return v
	}
	return defaultVal
}

// firstImageURL はプロフィールのimages配列から先頭のURLを取り出す。
// 配列が空、またはURLが無い場合はnilを返す。
func firstImageURL(body map[string]any) *string {
	images, ok := body["images"].([]any)
	if !ok || len(images) == 0 {
		return nil
	}
	first, ok := images[0].(map[string]any)
	if !ok {
		return nil
	}
	url, ok := first["url"].(string)
	if !ok || url == "" {
		return nil
	}
	return &url
}
