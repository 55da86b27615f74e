package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

// テスト用のサービスアカウントJSON（base64エンコード前）。
const testServiceAccountJSON = `{"type":"service_account","project_id":"test-project"}`

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "test-client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "test-client-secret")
	t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:3001/callback")
	t.Setenv("JWT_SECRET", "test-jwt-secret-32bytes-long!!!!")
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT", base64.StdEncoding.EncodeToString([]byte(testServiceAccountJSON)))
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.SpotifyClientID != "test-client-id" {
		t.Errorf("SpotifyClientID = %q, want %q", cfg.SpotifyClientID, "test-client-id")
	}
	if cfg.SpotifyClientSecret != "test-client-secret" {
		t.Errorf("SpotifyClientSecret = %q, want %q", cfg.SpotifyClientSecret, "test-client-secret")
	}
	if cfg.SpotifyRedirectURI != "http://localhost:3001/callback" {
		t.Errorf("SpotifyRedirectURI = %q, want %q", cfg.SpotifyRedirectURI, "http://localhost:3001/callback")
	}
	if cfg.JWTSecret != "test-jwt-secret-32bytes-long!!!!" {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, "test-jwt-secret-32bytes-long!!!!")
	}
	if cfg.FirebaseProjectID != "test-project" {
		t.Errorf("FirebaseProjectID = %q, want %q", cfg.FirebaseProjectID, "test-project")
	}
	if string(cfg.FirebaseServiceAccount) != testServiceAccountJSON {
		t.Errorf("FirebaseServiceAccount = %q, want decoded JSON", string(cfg.FirebaseServiceAccount))
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "3001" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "3001")
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, time.Hour)
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "http://localhost:3000")
	}
}

func TestLoad_OptionalVarsOverrideDefaults(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("FIREBASE_API_KEY", "api-key-value")
	t.Setenv("FIREBASE_AUTH_DOMAIN", "test-project.firebaseapp.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9000")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, 30*time.Minute)
	}
	if cfg.CORSAllowedOrigin != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "https://app.example.com")
	}
	if cfg.FirebaseAPIKey != "api-key-value" {
		t.Errorf("FirebaseAPIKey = %q, want %q", cfg.FirebaseAPIKey, "api-key-value")
	}
	if cfg.FirebaseAuthDomain != "test-project.firebaseapp.com" {
		t.Errorf("FirebaseAuthDomain = %q, want %q", cfg.FirebaseAuthDomain, "test-project.firebaseapp.com")
	}
}

func TestLoad_MissingRequiredVars_ReturnsError(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"missing client ID", "SPOTIFY_CLIENT_ID"},
		{"missing client secret", "SPOTIFY_CLIENT_SECRET"},
		{"missing redirect URI", "SPOTIFY_REDIRECT_URI"},
		{"missing JWT secret", "JWT_SECRET"},
		{"missing project ID", "FIREBASE_PROJECT_ID"},
		{"missing service account", "FIREBASE_SERVICE_ACCOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(tt.missing, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected error for missing required var")
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q should name the missing variable %q", err.Error(), tt.missing)
			}
		})
	}
}

func TestLoad_InvalidServiceAccountBase64_ReturnsError(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("FIREBASE_SERVICE_ACCOUNT", "not-valid-base64!!!")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid base64 service account")
	}
}

func TestLoad_InvalidSessionTTL_FallsBackToDefault(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want default %v", cfg.SessionTTL, time.Hour)
	}
}
