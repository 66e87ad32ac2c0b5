// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FeePolicy は手数料徴収とミント送信の順序ポリシーです。
// 参照実装は「ミント送信前に徴収」だったが、2 つのトランザクションは
// 独立したアトミック単位なので順序は設定で選べるようにしている。
type FeePolicy string

const (
	// FeePolicyBefore はミント送信前に手数料を徴収する（徴収失敗はミントをゲートする）。
	FeePolicyBefore FeePolicy = "before"
	// FeePolicyAfter はミント確定後に手数料を徴収する（徴収失敗はミント結果を覆さない）。
	FeePolicyAfter FeePolicy = "after"
	// FeePolicyDisabled は手数料徴収を行わない。
	FeePolicyDisabled FeePolicy = "disabled"
)

// Config はアプリケーション全体の環境変数設定を保持します。
// 起動時に一度だけ読み込み、以後は変更しない。
type Config struct {
	Port string

	// Solana 関連
	SolanaRPCURL   string
	ConfirmTimeout time.Duration

	// 手数料（SOL の 10 進文字列・例 "0.05"）と受取アドレス（base58）
	FeeSOL      string
	FeeReceiver string
	FeePolicy   FeePolicy

	// 支払い元（署名）ウォレット。Secret Manager のリソース名か、
	// ローカル開発用に keypair JSON を直接渡す。どちらも未設定なら
	// ワークフローは no-wallet で即失敗する（起動自体は許容）。
	PayerKeySecret string
	PayerKeyJSON   string

	// ピン留めサービス（Pinata）関連
	PinataAPIBase     string
	PinataGatewayBase string
	PinataAPIKey      string
	PinataSecretKey   string
	// 資格情報を Secret Manager 経由で渡す場合のリソース名（env 値より優先）
	PinataAPIKeySecret    string
	PinataSecretKeySecret string

	// Firestore（ミント履歴の永続化）。未設定なら永続化はスキップされる。
	FirestoreProjectID string
}

const (
	defaultDevnetRPC      = "https://api.devnet.solana.com"
	defaultPinataAPIBase  = "https://api.pinata.cloud"
	defaultPinataGateway  = "https://gateway.pinata.cloud"
	defaultConfirmTimeout = 60 * time.Second
)

// Load は環境変数を読み込み Config を返します。
// 必須項目の検証は Validate で行う（起動時に fail-fast させるため分離）。
func Load() *Config {
	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		SolanaRPCURL:   getenvDefault("SOLANA_RPC_URL", defaultDevnetRPC),
		ConfirmTimeout: getenvDuration("SOLANA_CONFIRM_TIMEOUT_SEC", defaultConfirmTimeout),

		FeeSOL:      strings.TrimSpace(os.Getenv("SOLANA_FEE")),
		FeeReceiver: strings.TrimSpace(os.Getenv("SOLANA_FEE_RECEIVER")),
		FeePolicy:   FeePolicy(getenvDefault("FEE_POLICY", string(FeePolicyBefore))),

		PayerKeySecret: strings.TrimSpace(os.Getenv("SOLANA_PAYER_KEY_SECRET")),
		PayerKeyJSON:   strings.TrimSpace(os.Getenv("SOLANA_PAYER_KEY_JSON")),

		PinataAPIBase:         getenvDefault("PINATA_API_BASE", defaultPinataAPIBase),
		PinataGatewayBase:     getenvDefault("PINATA_GATEWAY_BASE", defaultPinataGateway),
		PinataAPIKey:          strings.TrimSpace(os.Getenv("PINATA_API_KEY")),
		PinataSecretKey:       strings.TrimSpace(os.Getenv("PINATA_SECRET_KEY")),
		PinataAPIKeySecret:    strings.TrimSpace(os.Getenv("PINATA_API_KEY_SECRET")),
		PinataSecretKeySecret: strings.TrimSpace(os.Getenv("PINATA_SECRET_KEY_SECRET")),

		FirestoreProjectID: strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
	}

	return cfg
}

var (
	ErrFeeReceiverMissing = errors.New("config: SOLANA_FEE_RECEIVER is required when fee policy is enabled")
	ErrFeeAmountMissing   = errors.New("config: SOLANA_FEE is required when fee policy is enabled")
	ErrPinataKeyMissing   = errors.New("config: PINATA_API_KEY (or PINATA_API_KEY_SECRET) is required")
	ErrPinataSecMissing   = errors.New("config: PINATA_SECRET_KEY (or PINATA_SECRET_KEY_SECRET) is required")
)

// Validate は必須設定の欠落を起動時エラーとして報告します。
// RPC / API ベース URL はドキュメント化されたデフォルトがあるため必須としない。
func (c *Config) Validate() error {
	switch c.FeePolicy {
	case FeePolicyBefore, FeePolicyAfter:
		if c.FeeReceiver == "" {
			return ErrFeeReceiverMissing
		}
		if c.FeeSOL == "" {
			return ErrFeeAmountMissing
		}
	case FeePolicyDisabled:
		// 手数料なし運用。受取側の設定は不要。
	default:
		return fmt.Errorf("config: unknown FEE_POLICY %q (want before|after|disabled)", c.FeePolicy)
	}

	if c.PinataAPIKey == "" && c.PinataAPIKeySecret == "" {
		return ErrPinataKeyMissing
	}
	if c.PinataSecretKey == "" && c.PinataSecretKeySecret == "" {
		return ErrPinataSecMissing
	}

	return nil
}

// FeeEnabled は手数料徴収を行うポリシーかどうかを返します。
func (c *Config) FeeEnabled() bool {
	return c.FeePolicy == FeePolicyBefore || c.FeePolicy == FeePolicyAfter
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}
