// cmd/devnet_mint/main.go
package main

import (
	"context"
	"log"
	"time"

	usecase "tokenforge/internal/application/usecase"
	tokendom "tokenforge/internal/domain/token"
	"tokenforge/internal/platform/di"
)

// devnet で一連のワークフローを通すスモークコマンド。
// 実際に pin とミント送信を行うので、devnet 用の設定で実行すること。
func main() {
	ctx := context.Background()

	container, err := di.NewContainer(ctx)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer container.Close()

	if container.CreateTokenUC == nil {
		log.Fatalf("CreateTokenUsecase is nil")
	}

	spec, err := tokendom.NewSpec(
		"Devnet Smoke",
		"SMK",
		2,
		500,
		"devnet smoke token created at "+time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Fatalf("build spec: %v", err)
	}
	// 画像はアップロード済み URI を使い、pin は metadata JSON 側だけ確かめる
	spec.ImageURI = "https://gateway.pinata.cloud/ipfs/QmSmokeTestImage"

	runCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	outcome, err := container.CreateTokenUC.CreateToken(runCtx, usecase.CreateTokenInput{Spec: spec})
	if err != nil {
		log.Fatalf("[devnet-mint] workflow failed: %v", err)
	}

	log.Printf("[devnet-mint] OK mint=%s sig=%s metadata=%s fee=%s",
		outcome.MintAddress, outcome.Signature, outcome.MetadataURI, outcome.FeeSignature)
}
