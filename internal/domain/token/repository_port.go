// internal/domain/token/repository_port.go
package token

import "context"

// MintRecordRepository はミント結果の永続化ポートです。
// 実装例: adapters/out/firestore.MintRecordRepositoryFS
type MintRecordRepository interface {
	Create(ctx context.Context, r MintRecord) (MintRecord, error)
	GetByMintAddress(ctx context.Context, mintAddress string) (MintRecord, error)
	ListRecent(ctx context.Context, limit int) ([]MintRecord, error)
}
