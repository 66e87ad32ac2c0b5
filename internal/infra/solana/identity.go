// internal/infra/solana/identity.go
package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
)

// NewMintIdentity は新しいミントアカウント用の keypair を生成します。
// types.NewAccount は crypto/rand 由来の ed25519 鍵を返すため、
// 呼び出しごとに衝突しない新しい鍵になる。
// 生成された keypair はそのオーケストレーション 1 回が専有し、
// アカウント作成命令に署名した後は再利用・永続化してはならない。
func NewMintIdentity() types.Account {
	return types.NewAccount()
}

// DeriveAssociatedAccount は (owner, mint) から associated token account の
// アドレスを決定的に導出します。副作用なし・再計算可能。
func DeriveAssociatedAccount(owner, mint common.PublicKey) (common.PublicKey, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}
	return ata, nil
}

// DeriveMetadataRecord は mint からメタデータレコード PDA を決定的に導出します。
// 名前空間（metadata program ID）は SDK 側の固定値。
func DeriveMetadataRecord(mint common.PublicKey) (common.PublicKey, error) {
	pda, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}
	return pda, nil
}
