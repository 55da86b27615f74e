package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hitoshi/spotpoints/internal/model"
)

// usersCollection はユーザードキュメントを格納するコレクション名。
const usersCollection = "users"

// userDoc はFirestore上のユーザードキュメントのレイアウト。
// ドキュメントIDはSpotifyのユーザーID。
type userDoc struct {
	Email       string  `firestore:"email"`
	DisplayName string  `firestore:"displayName"`
	ImageURL    *string `firestore:"imageUrl"`
	Points      int     `firestore:"points"`
	HasClaimed  bool    `firestore:"hasClaimed"`
	CreatedAt   int64   `firestore:"createdAt"` // Unixミリ秒
}

// FirestoreUserRepo はFirestoreを使用したユーザーリポジトリ。
type FirestoreUserRepo struct {
	client *firestore.Client
}

// NewFirestoreUserRepo はFirestoreUserRepoを生成する。
func NewFirestoreUserRepo(client *firestore.Client) *FirestoreUserRepo {
	return &FirestoreUserRepo{client: client}
}

// FindBySpotifyID は指定SpotifyIDのユーザーを取得する。見つからない場合はnilを返す。
func (r *FirestoreUserRepo) FindBySpotifyID(ctx context.Context, spotifyID string) (*model.User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(spotifyID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user document: %w", err)
	}
	return docToUser(spotifyID, snap)
}

// CreateIfAbsent はユーザーが存在しない場合のみcandidateを永続化する。
// FirestoreのCreate（存在しない場合のみ書き込む条件付き書き込み）を使用するため、
// 同一SpotifyIDの同時コールバックが重複してもポイント採番は1回だけ行われる。
// 作成に負けた側はAlreadyExistsを受け取り、保存済みレコードを読み直して返す。
func (r *FirestoreUserRepo) CreateIfAbsent(ctx context.Context, candidate *model.User) (*model.User, bool, error) {
	docRef := r.client.Collection(usersCollection).Doc(candidate.SpotifyID)

	_, err := docRef.Create(ctx, userDoc{
		Email:       candidate.Email,
		DisplayName: candidate.DisplayName,
		ImageURL:    candidate.ImageURL,
		Points:      candidate.Points,
		HasClaimed:  candidate.HasClaimed,
		CreatedAt:   candidate.CreatedAt.UnixMilli(),
	})
	if err == nil {
		return candidate, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, fmt.Errorf("failed to create user document: %w", err)
	}

	// 既存ドキュメントが勝った。保存済みレコードを返す。
	existing, err := r.FindBySpotifyID(ctx, candidate.SpotifyID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("user document disappeared after create conflict: %s", candidate.SpotifyID)
	}
	return existing, false, nil
}

// docToUser はFirestoreドキュメントをドメインモデルに変換する。
func docToUser(spotifyID string, snap *firestore.DocumentSnapshot) (*model.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode user document: %w", err)
	}
	user := &model.User{
		SpotifyID:   spotifyID,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		ImageURL:    doc.ImageURL,
		Points:      doc.Points,
		HasClaimed:  doc.HasClaimed,
	}
	if doc.CreatedAt > 0 {
		user.CreatedAt = time.UnixMilli(doc.CreatedAt)
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*FirestoreUserRepo)(nil)
