// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/spotpoints/internal/auth"
	"github.com/hitoshi/spotpoints/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	LoginURL() string
	HandleCallback(ctx context.Context, code string) (*auth.LoginResult, error)
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// profileResponse はコールバック成功レスポンスのprofileフィールド。
type profileResponse struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Image  *string `json:"image"`
	Points int     `json:"points"`
}

// callbackResponse はコールバック成功時のレスポンスボディ。
type callbackResponse struct {
	Profile profileResponse `json:"profile"`
	Token   string          `json:"token"`
}

// errorResponse はエラーレスポンスの統一フォーマット。
// DetailsはSpotify起因の失敗（401）の場合のみ設定される。
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// Login はSpotify OAuthフローを開始する。
// GET /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.service.LoginURL(), http.StatusFound)
}

// Callback はOAuthコールバックを処理する。
// GET /callback?code=xxx
// Spotify起因の失敗は401とプロバイダーの生レスポンスを返し、
// それ以外の失敗は詳細をログにのみ記録して500を返す。
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing authorization code"})
		return
	}

	result, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		var upstreamErr *model.UpstreamError
		if errors.As(err, &upstreamErr) {
			slog.Warn("spotify rejected login",
				slog.String("kind", string(upstreamErr.Kind)),
			)
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error:   upstreamErr.Message,
				Details: upstreamErr.Details,
			})
			return
		}

		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, callbackResponse{
		Profile: profileResponse{
			Name:   result.Profile.Name,
			Email:  result.Profile.Email,
			Image:  result.Profile.Image,
			Points: result.Profile.Points,
		},
		Token: result.Token,
	})
}

// Health はヘルスチェックエンドポイント。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
