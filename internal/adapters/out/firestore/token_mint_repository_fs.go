// internal/adapters/out/firestore/token_mint_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tokendom "tokenforge/internal/domain/token"
)

// MintRecordRepositoryFS implements token.MintRecordRepository using Firestore.
type MintRecordRepositoryFS struct {
	Client *firestore.Client
}

var _ tokendom.MintRecordRepository = (*MintRecordRepositoryFS)(nil)

const mintCollection = "token_mints"

func NewMintRecordRepositoryFS(client *firestore.Client) *MintRecordRepositoryFS {
	return &MintRecordRepositoryFS{Client: client}
}

func (r *MintRecordRepositoryFS) Create(ctx context.Context, m tokendom.MintRecord) (tokendom.MintRecord, error) {
	if r.Client == nil {
		return tokendom.MintRecord{}, errors.New("firestore client is nil")
	}

	// ドメインの Validate
	if err := m.Validate(); err != nil {
		return tokendom.MintRecord{}, err
	}

	// docId は mintAddress をそのまま使う（1 ミント = 1 ドキュメント）
	if m.ID == "" {
		m.ID = m.MintAddress
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	// 🔸 ドメインのフィールドを落とさないように明示的にマッピングする
	data := map[string]interface{}{
		"name":        m.Name,
		"symbol":      m.Symbol,
		"decimals":    int(m.Decimals),
		"supply":      int64(m.Supply),
		"mintAddress": m.MintAddress,
		"signature":   m.Signature,
		"metadataUri": m.MetadataURI,
		"createdAt":   m.CreatedAt,
	}
	if m.FeeSignature != "" {
		data["feeSignature"] = m.FeeSignature
	}

	if _, err := r.Client.Collection(mintCollection).Doc(m.ID).Set(ctx, data); err != nil {
		return tokendom.MintRecord{}, err
	}

	return m, nil
}

func (r *MintRecordRepositoryFS) GetByMintAddress(ctx context.Context, mintAddress string) (tokendom.MintRecord, error) {
	if r.Client == nil {
		return tokendom.MintRecord{}, errors.New("firestore client is nil")
	}

	addr := strings.TrimSpace(mintAddress)
	if addr == "" {
		return tokendom.MintRecord{}, tokendom.ErrNotFound
	}

	snap, err := r.Client.Collection(mintCollection).Doc(addr).Get(ctx)
	if err != nil {
		return tokendom.MintRecord{}, mapGetErr(err)
	}
	if !snap.Exists() {
		return tokendom.MintRecord{}, tokendom.ErrNotFound
	}

	return decodeMintRecord(snap.Ref.ID, snap.Data()), nil
}

func (r *MintRecordRepositoryFS) ListRecent(ctx context.Context, limit int) ([]tokendom.MintRecord, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	it := r.Client.Collection(mintCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer it.Stop()

	out := make([]tokendom.MintRecord, 0, limit)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, decodeMintRecord(snap.Ref.ID, snap.Data()))
	}

	return out, nil
}

// mapGetErr は Firestore の取得エラーをドメインのエラーに写像します。
// NotFound の判定は gRPC のステータスコードで行う（エラーメッセージの文言には依存しない）。
func mapGetErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return tokendom.ErrNotFound
	}
	return err
}

// decodeMintRecord は Firestore ドキュメントをドメインのレコードに復元します。
// 旧スキーマで欠けているフィールドは零値のまま許容する。
func decodeMintRecord(id string, data map[string]interface{}) tokendom.MintRecord {
	rec := tokendom.MintRecord{ID: id}

	rec.Name = asString(data["name"])
	rec.Symbol = asString(data["symbol"])
	rec.MintAddress = asString(data["mintAddress"])
	rec.Signature = asString(data["signature"])
	rec.MetadataURI = asString(data["metadataUri"])
	rec.FeeSignature = asString(data["feeSignature"])

	if v, ok := data["decimals"].(int64); ok && v >= 0 && v <= int64(tokendom.MaxDecimals) {
		rec.Decimals = uint8(v)
	}
	if v, ok := data["supply"].(int64); ok && v > 0 {
		rec.Supply = uint64(v)
	}
	if v, ok := data["createdAt"].(time.Time); ok {
		rec.CreatedAt = v
	}

	if rec.MintAddress == "" {
		rec.MintAddress = id
	}
	return rec
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
