// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	httpin "tokenforge/internal/adapters/in/http"
	"tokenforge/internal/adapters/in/http/handlers"
	fsrepo "tokenforge/internal/adapters/out/firestore"
	usecase "tokenforge/internal/application/usecase"
	tokendom "tokenforge/internal/domain/token"
	"tokenforge/internal/infra/config"
	"tokenforge/internal/infra/pinata"
	"tokenforge/internal/infra/solana"
)

// Container はアプリケーション全体の依存を組み立てて保持します。
// 接続オブジェクトはプロセス全域のシングルトンではなく、
// この Container の lifecycle（NewContainer / Close）が所有する。
type Container struct {
	Config *config.Config

	Gateway  *solana.MintGateway
	Uploader *pinata.Uploader
	Records  tokendom.MintRecordRepository

	CreateTokenUC *usecase.CreateTokenUsecase

	fsClient *firestore.Client
}

// NewContainer は設定の検証 → 資格情報の解決 → 依存の組み立てを行います。
// 必須設定の欠落はここで fail-fast させる（起動時の ConfigurationError）。
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	// Pinata 資格情報: Secret Manager のリソース名が指定されていれば env 値より優先
	apiKey := cfg.PinataAPIKey
	secretKey := cfg.PinataSecretKey
	if cfg.PinataAPIKeySecret != "" {
		v, err := solana.AccessSecretString(ctx, cfg.PinataAPIKeySecret)
		if err != nil {
			return nil, fmt.Errorf("resolve pinata api key secret: %w", err)
		}
		apiKey = v
	}
	if cfg.PinataSecretKeySecret != "" {
		v, err := solana.AccessSecretString(ctx, cfg.PinataSecretKeySecret)
		if err != nil {
			return nil, fmt.Errorf("resolve pinata secret key secret: %w", err)
		}
		secretKey = v
	}
	if apiKey == "" || secretKey == "" {
		return nil, fmt.Errorf("config validation: pinata credentials resolved empty")
	}

	// 手数料: 10 進 SOL 設定値を起動時に lamports へ変換（不正値は fail-fast）
	var feeLamports uint64
	if cfg.FeeEnabled() {
		v, err := solana.ParseSOLToLamports(cfg.FeeSOL)
		if err != nil {
			return nil, fmt.Errorf("config validation: SOLANA_FEE: %w", err)
		}
		if v == 0 {
			// 徴収ポリシー有効のまま 0 lamports だと全実行が fee 段で失敗する
			return nil, fmt.Errorf("config validation: SOLANA_FEE must be positive when fee policy is %q", cfg.FeePolicy)
		}
		feeLamports = v
	}

	// 支払いウォレット: 未設定でも起動は許容（ワークフローが no-wallet で失敗する）
	payer, err := solana.LoadPayerWallet(ctx, cfg.PayerKeySecret, cfg.PayerKeyJSON)
	if err != nil {
		return nil, fmt.Errorf("load payer wallet: %w", err)
	}

	rpc := solana.NewRPCClient(cfg.SolanaRPCURL, cfg.ConfirmTimeout)
	gateway := solana.NewMintGateway(rpc, payer)
	uploader := pinata.NewUploader(cfg.PinataAPIBase, cfg.PinataGatewayBase, apiKey, secretKey)

	c := &Container{
		Config:   cfg,
		Gateway:  gateway,
		Uploader: uploader,
	}

	// Firestore はプロジェクト ID 未設定なら履歴の永続化をスキップする
	if cfg.FirestoreProjectID != "" {
		fsClient, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("firestore.NewClient: %w", err)
		}
		c.fsClient = fsClient
		c.Records = fsrepo.NewMintRecordRepositoryFS(fsClient)
	} else {
		log.Printf("[di] FIRESTORE_PROJECT_ID not set; mint records will not be persisted")
	}

	c.CreateTokenUC = usecase.NewCreateTokenUsecase(
		gateway,
		uploader,
		gateway,
		gateway,
		c.Records,
		usecase.Options{
			FeePolicy:   usecase.FeePolicy(cfg.FeePolicy),
			FeeReceiver: cfg.FeeReceiver,
			FeeLamports: feeLamports,
		},
	)

	log.Printf("[di] container ready rpc=%s feePolicy=%s persist=%t", cfg.SolanaRPCURL, cfg.FeePolicy, c.Records != nil)
	return c, nil
}

// RouterDeps はルーターに渡すハンドラ群を組み立てます。
func (c *Container) RouterDeps() httpin.Deps {
	return httpin.Deps{
		Token: handlers.NewTokenHandler(c.CreateTokenUC, c.Records),
	}
}

// Close は Container が所有するクライアントを閉じます。
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.fsClient != nil {
		_ = c.fsClient.Close()
	}
}
