// internal/infra/solana/wallet.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
)

var (
	ErrPayerNotLoaded    = errors.New("wallet: payer keypair is not loaded")
	ErrInvalidKeypairLen = errors.New("wallet: unexpected keypair length")
)

// PayerWallet はサービスが保持する支払い・署名用ウォレットです。
// 鍵は Secret Manager（本番）または環境変数の keypair JSON（ローカル開発）から
// 復元される。未設定の場合 Loaded() が false になり、
// ワークフローは no-wallet として即座に失敗する（起動は許容する）。
type PayerWallet struct {
	account *types.Account
}

// LoadPayerWallet は secretName（優先）→ keyJSON の順で keypair を復元します。
// どちらも空なら未ロードのウォレットを返す（エラーにしない）。
func LoadPayerWallet(ctx context.Context, secretName, keyJSON string) (*PayerWallet, error) {
	secretName = strings.TrimSpace(secretName)
	keyJSON = strings.TrimSpace(keyJSON)

	var raw []byte
	switch {
	case secretName != "":
		data, err := AccessSecret(ctx, secretName)
		if err != nil {
			return nil, fmt.Errorf("load payer key from secret manager: %w", err)
		}
		raw = data
	case keyJSON != "":
		raw = []byte(keyJSON)
	default:
		log.Printf("[wallet] no payer key configured; workflow will fail with no-wallet")
		return &PayerWallet{}, nil
	}

	keyBytes, err := decodeKeypairJSON(raw)
	if err != nil {
		return nil, err
	}

	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("AccountFromBytes: %w", err)
	}

	log.Printf("[wallet] payer wallet loaded pubkey=%s", maskShort(acc.PublicKey.ToBase58()))
	return &PayerWallet{account: &acc}, nil
}

// NewPayerWalletFromAccount はテスト・スモークコマンド用のコンストラクタです。
func NewPayerWalletFromAccount(acc types.Account) *PayerWallet {
	return &PayerWallet{account: &acc}
}

// Loaded は keypair が復元済みかを返します。
func (w *PayerWallet) Loaded() bool {
	return w != nil && w.account != nil
}

// PublicKeyBase58 は支払いウォレットの公開鍵を base58 で返します。
// 未ロードなら ok=false。
func (w *PayerWallet) PublicKeyBase58() (string, bool) {
	if !w.Loaded() {
		return "", false
	}
	return w.account.PublicKey.ToBase58(), true
}

// Account は署名用の keypair を返します。
func (w *PayerWallet) Account() (types.Account, error) {
	if !w.Loaded() {
		return types.Account{}, ErrPayerNotLoaded
	}
	return *w.account, nil
}

// decodeKeypairJSON は solana-keygen 形式の keypair JSON から
// 64 バイトの鍵配列を復元します。
// - 正: [u8;64] を []byte で受け取る
// - 互換: [int,...] を []int で受けてから []byte に変換
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var keyBytes []byte
	if err := json.Unmarshal(data, &keyBytes); err == nil {
		if len(keyBytes) == ed25519.PrivateKeySize {
			return keyBytes, nil
		}
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeypairLen, len(ints), ed25519.PrivateKeySize)
	}

	keyBytes = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte out of range at %d: %d", ErrInvalidKeypairLen, i, v)
		}
		keyBytes[i] = byte(v)
	}

	return keyBytes, nil
}
