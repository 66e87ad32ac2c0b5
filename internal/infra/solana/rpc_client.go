// internal/infra/solana/rpc_client.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

var (
	ErrRPCNotConfigured = errors.New("rpc_client: not configured")
	ErrConfirmTimeout   = errors.New("rpc_client: confirmation timed out")
	ErrTxFailedOnChain  = errors.New("rpc_client: transaction failed on chain")
)

// RPCClient は blocto SDK の client を薄くラップし、
// レント問い合わせと「送信 + 有界な確認待ち」を提供します。
// 確認待ちに上限を設けるのは、送信済みトランザクションを
// 無期限に待たないため（タイムアウトは明示的な失敗として報告する）。
type RPCClient struct {
	RPC *client.Client

	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// NewRPCClient は RPC クライアントを生成します。
func NewRPCClient(rpcURL string, confirmTimeout time.Duration) *RPCClient {
	u := strings.TrimSpace(rpcURL)
	if u == "" {
		u = rpc.DevnetRPCEndpoint
	}
	if confirmTimeout <= 0 {
		confirmTimeout = 60 * time.Second
	}
	return &RPCClient{
		RPC:            client.NewClient(u),
		ConfirmTimeout: confirmTimeout,
		PollInterval:   2 * time.Second,
	}
}

// MintRent は Mint アカウントサイズ分のレント免除最低額を問い合わせます。
// 実行ごとに呼び出し、値をキャッシュしないこと。
func (c *RPCClient) MintRent(ctx context.Context) (uint64, error) {
	if c == nil || c.RPC == nil {
		return 0, ErrRPCNotConfigured
	}
	rent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return 0, fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}
	return rent, nil
}

// LatestBlockhash は直近の blockhash を返します。
func (c *RPCClient) LatestBlockhash(ctx context.Context) (string, error) {
	if c == nil || c.RPC == nil {
		return "", ErrRPCNotConfigured
	}
	latest, err := c.RPC.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash: %w", err)
	}
	return latest.Blockhash, nil
}

// SendAndConfirm はトランザクションを送信し、confirmed 以上になるまで
// ConfirmTimeout を上限にポーリングします。
// タイムアウト時はシグネチャ付きのエラーを返す（チェーン上では成立し得る）。
func (c *RPCClient) SendAndConfirm(ctx context.Context, tx types.Transaction) (string, error) {
	if c == nil || c.RPC == nil {
		return "", ErrRPCNotConfigured
	}

	sig, err := c.RPC.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("SendTransaction: %w", err)
	}

	log.Printf("[rpc_client] submitted tx=%s; waiting for confirmation (timeout=%s)", maskShort(sig), c.ConfirmTimeout)

	deadline := time.Now().Add(c.ConfirmTimeout)
	interval := c.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	for {
		status, err := c.RPC.GetSignatureStatus(ctx, sig)
		if err == nil && status != nil {
			if status.Err != nil {
				return sig, fmt.Errorf("%w: tx=%s err=%v", ErrTxFailedOnChain, sig, status.Err)
			}
			if status.ConfirmationStatus != nil {
				switch *status.ConfirmationStatus {
				case rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
					log.Printf("[rpc_client] confirmed tx=%s status=%s", maskShort(sig), *status.ConfirmationStatus)
					return sig, nil
				}
			}
		}
		if err != nil {
			// 一時的な RPC エラーはポーリング継続（期限内のみ）
			log.Printf("[rpc_client] GetSignatureStatus transient error tx=%s err=%v", maskShort(sig), err)
		}

		if time.Now().After(deadline) {
			return sig, fmt.Errorf("%w: tx=%s after %s", ErrConfirmTimeout, sig, c.ConfirmTimeout)
		}

		select {
		case <-ctx.Done():
			return sig, fmt.Errorf("rpc_client: confirmation wait canceled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
