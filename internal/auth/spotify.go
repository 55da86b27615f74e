package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultSpotifyAuthURL    = "https://accounts.spotify.com/authorize"
	defaultSpotifyTokenURL   = "https://accounts.spotify.com/api/token"
	defaultSpotifyProfileURL = "https://api.spotify.com/v1/me"

	// プロフィール取得に必要な固定スコープ
	spotifyScope = "user-read-email user-read-private"
)

// SpotifyConfig はSpotify OAuthクライアントの設定。
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// テスト用にオーバーライド可能なURL
	AuthURL    string
	TokenURL   string
	ProfileURL string
}

// SpotifyClient はSpotifyのOAuthエンドポイントを呼び出すクライアント。
// レスポンスボディは解釈せず、パース済みのまま呼び出し側に返す。
type SpotifyClient struct {
	config SpotifyConfig
}

// NewSpotifyClient はSpotifyClientを生成する。
func NewSpotifyClient(config SpotifyConfig) *SpotifyClient {
	if config.AuthURL == "" {
		config.AuthURL = defaultSpotifyAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultSpotifyTokenURL
	}
	if config.ProfileURL == "" {
		config.ProfileURL = defaultSpotifyProfileURL
	}
	return &SpotifyClient{config: config}
}

// LoginURL はSpotifyの認可URLを生成する。
// show_dialog=trueにより毎回同意ダイアログを表示させる。
func (c *SpotifyClient) LoginURL() string {
	params := url.Values{
		"client_id":     {c.config.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {c.config.RedirectURI},
		"scope":         {spotifyScope},
		"show_dialog":   {"true"},
	}
	return c.config.AuthURL + "?" + params.Encode()
}

// ExchangeCode は認可コードをトークンエンドポイントに送り、
// レスポンスボディをパースしてそのまま返す。
// access_tokenの有無の判定は呼び出し側の責務とする。
func (c *SpotifyClient) ExchangeCode(ctx context.Context, code string) (map[string]any, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.config.RedirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return parsed, nil
}

// FetchProfile はアクセストークンで現在のユーザーのプロフィールを取得し、
// レスポンスボディをパースしてそのまま返す。errorフィールドの判定は呼び出し側の責務とする。
func (c *SpotifyClient) FetchProfile(ctx context.Context, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	return parsed, nil
}

// basicAuth はclient_idとclient_secretからBasic認証の資格情報を組み立てる。
func (c *SpotifyClient) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
}

// compile-time interface check
var _ SpotifyAPI = (*SpotifyClient)(nil)
