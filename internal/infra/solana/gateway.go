// internal/infra/solana/gateway.go
package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/types"

	usecase "tokenforge/internal/application/usecase"
)

var (
	ErrGatewayNotConfigured = errors.New("mint_gateway: not configured")
	ErrInvalidMintSigner    = errors.New("mint_gateway: invalid mint signer type")
)

// MintGateway は orchestrator から見た台帳側の実装です。
// usecase.LedgerGateway / usecase.FeeCollector / usecase.Wallet を満たす。
type MintGateway struct {
	RPC   *RPCClient
	Payer *PayerWallet
}

// インターフェース実装チェック
var (
	_ usecase.LedgerGateway = (*MintGateway)(nil)
	_ usecase.FeeCollector  = (*MintGateway)(nil)
	_ usecase.Wallet        = (*MintGateway)(nil)
)

// NewMintGateway は RPC クライアントと支払いウォレットから gateway を初期化します。
func NewMintGateway(rpc *RPCClient, payer *PayerWallet) *MintGateway {
	return &MintGateway{RPC: rpc, Payer: payer}
}

// PayerPublicKey は usecase.Wallet の実装です。
func (g *MintGateway) PayerPublicKey() (string, bool) {
	if g == nil || g.Payer == nil {
		return "", false
	}
	return g.Payer.PublicKeyBase58()
}

// MintRent は usecase.LedgerGateway の実装です。実行ごとに最新値を問い合わせる。
func (g *MintGateway) MintRent(ctx context.Context) (uint64, error) {
	if g == nil || g.RPC == nil {
		return 0, ErrGatewayNotConfigured
	}
	return g.RPC.MintRent(ctx)
}

// GenerateMintIdentity は新規ミント keypair を生成し、公開鍵（base58）と
// 署名用 keypair（usecase からは不透明な any）を返します。
func (g *MintGateway) GenerateMintIdentity() (usecase.MintIdentity, error) {
	acc := NewMintIdentity()
	return usecase.MintIdentity{
		Address: acc.PublicKey.ToBase58(),
		Signer:  acc,
	}, nil
}

// SubmitCreateToken は usecase.LedgerGateway の実装です。
// 派生（ATA / メタデータ PDA）→ 5 命令の組み立て → payer + mint の 2 署名で
// 送信・確認待ちまでを行います。
func (g *MintGateway) SubmitCreateToken(ctx context.Context, in usecase.SubmitCreateTokenInput) (string, error) {
	if g == nil || g.RPC == nil {
		return "", ErrGatewayNotConfigured
	}

	payerAcc, err := g.Payer.Account()
	if err != nil {
		return "", err
	}
	payer := payerAcc.PublicKey

	mintAcc, err := normalizeSignerAccount(in.Mint.Signer)
	if err != nil {
		return "", err
	}
	mint := mintAcc.PublicKey

	ata, err := DeriveAssociatedAccount(payer, mint)
	if err != nil {
		return "", fmt.Errorf("mint_gateway: derive ATA: %w", err)
	}
	metadataRecord, err := DeriveMetadataRecord(mint)
	if err != nil {
		return "", fmt.Errorf("mint_gateway: derive metadata record: %w", err)
	}

	instructions, err := BuildCreateTokenInstructions(BuildParams{
		Payer:             payer,
		Mint:              mint,
		AssociatedAccount: ata,
		MetadataRecord:    metadataRecord,
		MintRent:          in.MintRent,
		Decimals:          in.Spec.Decimals,
		Supply:            in.Spec.Supply,
		Name:              in.Spec.Name,
		Symbol:            in.Spec.Symbol,
		MetadataURI:       in.MetadataURI,
	})
	if err != nil {
		return "", fmt.Errorf("mint_gateway: build instructions: %w", err)
	}

	blockhash, err := g.RPC.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("mint_gateway: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{payerAcc, mintAcc},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        payer,
			RecentBlockhash: blockhash,
			Instructions:    instructions,
		}),
	})
	if err != nil {
		return "", fmt.Errorf("mint_gateway: NewTransaction: %w", err)
	}

	log.Printf(
		"[mint_gateway] submit create-token mint=%s ata=%s metadata=%s payer=%s",
		maskShort(mint.ToBase58()),
		maskShort(ata.ToBase58()),
		maskShort(metadataRecord.ToBase58()),
		maskShort(payer.ToBase58()),
	)

	return g.RPC.SendAndConfirm(ctx, tx)
}

// normalizeSignerAccount は usecase 境界を越えてきた署名者を types.Account に正規化します。
// 対応形式:
// - types.Account / *types.Account
// - []byte (64 バイト)
// - string: JSON 配列 "[1,2,...]"（Secret Manager 形式）
func normalizeSignerAccount(signerAny any) (types.Account, error) {
	switch t := signerAny.(type) {
	case types.Account:
		return t, nil
	case *types.Account:
		if t == nil {
			return types.Account{}, ErrInvalidMintSigner
		}
		return *t, nil
	case []byte:
		acc, err := types.AccountFromBytes(t)
		if err != nil {
			return types.Account{}, fmt.Errorf("mint_gateway: AccountFromBytes: %w", err)
		}
		return acc, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return types.Account{}, ErrInvalidMintSigner
		}
		var ints []int
		if err := json.Unmarshal([]byte(s), &ints); err != nil {
			return types.Account{}, fmt.Errorf("%w: not a json int array: %v", ErrInvalidMintSigner, err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return types.Account{}, fmt.Errorf("%w: byte out of range at %d", ErrInvalidMintSigner, i)
			}
			b[i] = byte(v)
		}
		acc, err := types.AccountFromBytes(b)
		if err != nil {
			return types.Account{}, fmt.Errorf("mint_gateway: AccountFromBytes(json): %w", err)
		}
		return acc, nil
	default:
		return types.Account{}, fmt.Errorf("%w: %T", ErrInvalidMintSigner, signerAny)
	}
}
