// internal/infra/solana/instruction_builder.go
package solana

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// BuildParams はトークン作成トランザクション 1 本分の入力です。
// MintRent は実行ごとに RPC へ問い合わせた最新値を渡すこと
// （レント免除最低額はプロトコル更新で変わり得るためハードコード禁止）。
type BuildParams struct {
	Payer             common.PublicKey
	Mint              common.PublicKey
	AssociatedAccount common.PublicKey
	MetadataRecord    common.PublicKey
	MintRent          uint64
	Decimals          uint8
	Supply            uint64 // スケーリング前
	Name              string
	Symbol            string
	MetadataURI       string
}

var (
	ErrBuildMetadataURIEmpty = errors.New("instruction_builder: metadata uri is empty")
	ErrBuildNameEmpty        = errors.New("instruction_builder: name is empty")
	ErrBuildSymbolEmpty      = errors.New("instruction_builder: symbol is empty")
)

// BuildCreateTokenInstructions はトークン作成に必要な 5 命令を固定順で組み立てます。
//
//  1. Mint アカウント作成（レント免除最低額・token program 所有）
//  2. Mint 初期化（decimals / mint・freeze 権限 = payer）
//  3. Payer の associated token account 作成
//  4. supply × 10^decimals をベース単位で MintTo
//  5. メタデータレコード作成（isMutable=false / creators なし / sellerFee 0）
//
// 後続の命令は前の命令の完了を前提にしているため、順序は構築時に固定される。
// 5 命令は 1 トランザクションとしてアトミックに実行される（手数料送金は別）。
func BuildCreateTokenInstructions(p BuildParams) ([]types.Instruction, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrBuildNameEmpty
	}
	if strings.TrimSpace(p.Symbol) == "" {
		return nil, ErrBuildSymbolEmpty
	}
	if strings.TrimSpace(p.MetadataURI) == "" {
		return nil, ErrBuildMetadataURIEmpty
	}

	baseUnits, err := ScaledSupply(p.Supply, p.Decimals)
	if err != nil {
		return nil, fmt.Errorf("scale supply: %w", err)
	}

	instructions := []types.Instruction{
		// 1) Mint アカウント作成
		system.CreateAccount(system.CreateAccountParam{
			From:     p.Payer,
			New:      p.Mint,
			Owner:    common.TokenProgramID,
			Lamports: p.MintRent,
			Space:    token.MintAccountSize,
		}),
		// 2) Mint 初期化
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   p.Decimals,
			Mint:       p.Mint,
			MintAuth:   p.Payer,
			FreezeAuth: &p.Payer,
		}),
		// 3) Payer の ATA 作成
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 p.Payer,
				Owner:                  p.Payer,
				Mint:                   p.Mint,
				AssociatedTokenAccount: p.AssociatedAccount,
			},
		),
		// 4) 初期供給量をベース単位でミント
		token.MintTo(token.MintToParam{
			Mint:   p.Mint,
			To:     p.AssociatedAccount,
			Auth:   p.Payer,
			Amount: baseUnits,
		}),
		// 5) メタデータレコード作成（恒久的に不変・最小構成）
		token_metadata.CreateMetadataAccountV3(
			token_metadata.CreateMetadataAccountV3Param{
				Metadata:                p.MetadataRecord,
				Mint:                    p.Mint,
				MintAuthority:           p.Payer,
				UpdateAuthority:         p.Payer,
				Payer:                   p.Payer,
				UpdateAuthorityIsSigner: true,
				IsMutable:               false,
				Data: token_metadata.DataV2{
					Name:                 strings.TrimSpace(p.Name),
					Symbol:               strings.TrimSpace(p.Symbol),
					Uri:                  strings.TrimSpace(p.MetadataURI),
					SellerFeeBasisPoints: 0,
					Creators:             nil,
				},
				CollectionDetails: nil,
			},
		),
	}

	return instructions, nil
}
