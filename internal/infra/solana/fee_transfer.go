// internal/infra/solana/fee_transfer.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/mr-tron/base58"
)

var (
	ErrFeeReceiverEmpty   = errors.New("fee_transfer: receiver is empty")
	ErrFeeReceiverInvalid = errors.New("fee_transfer: receiver is not a valid base58 address")
	ErrFeeAmountZero      = errors.New("fee_transfer: amount is zero")
)

// CollectFee は payer → receiver の固定サービス手数料を 1 命令の独立した
// トランザクションとして送信します。ミント用トランザクションとは別の
// アトミック単位であり、片方の失敗がもう片方をロールバックすることはない。
func (g *MintGateway) CollectFee(ctx context.Context, receiver string, lamports uint64) (string, error) {
	if g == nil || g.RPC == nil {
		return "", ErrGatewayNotConfigured
	}
	if lamports == 0 {
		return "", ErrFeeAmountZero
	}

	to, err := parseReceiverAddress(receiver)
	if err != nil {
		return "", err
	}

	payerAcc, err := g.Payer.Account()
	if err != nil {
		return "", err
	}

	blockhash, err := g.RPC.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fee_transfer: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{payerAcc},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        payerAcc.PublicKey,
			RecentBlockhash: blockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   payerAcc.PublicKey,
					To:     to,
					Amount: lamports,
				}),
			},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("fee_transfer: NewTransaction: %w", err)
	}

	log.Printf(
		"[fee_transfer] submit fee lamports=%d from=%s to=%s",
		lamports,
		maskShort(payerAcc.PublicKey.ToBase58()),
		maskShort(receiver),
	)

	sig, err := g.RPC.SendAndConfirm(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("fee_transfer: %w", err)
	}
	return sig, nil
}

// parseReceiverAddress は受取アドレスを検証付きでデコードします。
// common.PublicKeyFromString は不正入力を黙って握り潰すため、
// 先に base58 デコードして 32 バイトであることを確かめる。
func parseReceiverAddress(receiver string) (common.PublicKey, error) {
	r := strings.TrimSpace(receiver)
	if r == "" {
		return common.PublicKey{}, ErrFeeReceiverEmpty
	}

	raw, err := base58.Decode(r)
	if err != nil || len(raw) != 32 {
		return common.PublicKey{}, fmt.Errorf("%w: %q", ErrFeeReceiverInvalid, maskShort(r))
	}

	return common.PublicKeyFromString(r), nil
}
