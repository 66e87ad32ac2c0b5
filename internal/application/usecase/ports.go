// internal/application/usecase/ports.go
package usecase

import (
	"context"

	tokendom "tokenforge/internal/domain/token"
)

// ============================================================
// Ports (orchestrator が依存する外部コラボレータの最小 IF)
// ============================================================

// Wallet は接続済み署名ウォレットのポートです。
// ok=false は「署名できる鍵が無い」＝ワークフロー開始の唯一の前提条件違反。
// 実装例: infra/solana.MintGateway
type Wallet interface {
	PayerPublicKey() (pubkey string, ok bool)
}

// MetadataPublisher はオフチェーンメタデータ公開のポートです。
// 台帳には一切触れない（リモートストア以外の副作用なし）。
// 実装例: infra/pinata.Uploader
type MetadataPublisher interface {
	// PinFile は画像アセットをアップロードし、解決可能な URI を返す
	PinFile(ctx context.Context, filename string, data []byte) (uri string, err error)
	// PinJSON はメタデータドキュメントをアップロードし、解決可能な URI を返す
	PinJSON(ctx context.Context, doc tokendom.MetadataDocument) (uri string, err error)
}

// MintIdentity は 1 回のオーケストレーションが専有する新規ミント keypair です。
// Signer は infra 側の keypair 型で、usecase からは不透明に扱う
// （infra/solana.normalizeSignerAccount が復元する）。
type MintIdentity struct {
	Address string // base58 公開鍵
	Signer  any
}

// SubmitCreateTokenInput はミントトランザクション送信 1 回分の入力です。
type SubmitCreateTokenInput struct {
	Mint        MintIdentity
	MintRent    uint64
	Spec        tokendom.Spec
	MetadataURI string
}

// LedgerGateway は台帳側コラボレータのポートです。
// 実装例: infra/solana.MintGateway
type LedgerGateway interface {
	// MintRent は Mint アカウントのレント免除最低額を問い合わせる（実行ごとに最新値）
	MintRent(ctx context.Context) (uint64, error)
	// GenerateMintIdentity は新規ミント keypair を生成する
	GenerateMintIdentity() (MintIdentity, error)
	// SubmitCreateToken は 5 命令のトランザクションを署名・送信し、確認済みシグネチャを返す
	SubmitCreateToken(ctx context.Context, in SubmitCreateTokenInput) (signature string, err error)
}

// FeeCollector はサービス手数料徴収のポートです。
// ミントとは独立したトランザクションとして実行される。
// 実装例: infra/solana.MintGateway
type FeeCollector interface {
	CollectFee(ctx context.Context, receiver string, lamports uint64) (signature string, err error)
}
