// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Spotify OAuth
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string

	// Session (JWT)
	JWTSecret  string
	SessionTTL time.Duration

	// Firestore
	FirebaseProjectID      string
	FirebaseServiceAccount []byte // デコード済みのサービスアカウントJSON

	// Firebaseクライアント側設定。サーバーでは使用しないが環境として認識する。
	FirebaseAPIKey     string
	FirebaseAuthDomain string

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.SpotifyClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	if cfg.SpotifyClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}

	cfg.SpotifyClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	if cfg.SpotifyClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_SECRET")
	}

	cfg.SpotifyRedirectURI = os.Getenv("SPOTIFY_REDIRECT_URI")
	if cfg.SpotifyRedirectURI == "" {
		missing = append(missing, "SPOTIFY_REDIRECT_URI")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.FirebaseProjectID = os.Getenv("FIREBASE_PROJECT_ID")
	if cfg.FirebaseProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}

	serviceAccount := os.Getenv("FIREBASE_SERVICE_ACCOUNT")
	if serviceAccount == "" {
		missing = append(missing, "FIREBASE_SERVICE_ACCOUNT")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// サービスアカウントはbase64エンコードされたJSONとして渡される
	decoded, err := base64.StdEncoding.DecodeString(serviceAccount)
	if err != nil {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT must be base64-encoded JSON: %w", err)
	}
	cfg.FirebaseServiceAccount = decoded

	// Optional fields with defaults
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", time.Hour)
	cfg.FirebaseAPIKey = getEnvString("FIREBASE_API_KEY", "")
	cfg.FirebaseAuthDomain = getEnvString("FIREBASE_AUTH_DOMAIN", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "3001")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
