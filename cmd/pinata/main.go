// cmd/pinata/main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	tokendom "tokenforge/internal/domain/token"
	"tokenforge/internal/infra/pinata"
)

func main() {
	apiKey := os.Getenv("PINATA_API_KEY")
	secretKey := os.Getenv("PINATA_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		log.Fatal("PINATA_API_KEY / PINATA_SECRET_KEY is empty")
	}

	u := pinata.NewUploader(
		"https://api.pinata.cloud",
		"https://gateway.pinata.cloud",
		apiKey,
		secretKey,
	)

	doc := tokendom.MetadataDocument{
		Name:        "debug",
		Symbol:      "DBG",
		Description: "pinata connectivity check " + time.Now().UTC().Format(time.RFC3339),
		Image:       "https://gateway.pinata.cloud/ipfs/debug",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("[debug-pinata] PinJSON ...")
	uri, err := u.PinJSON(ctx, doc)
	if err != nil {
		log.Fatalf("PinJSON failed: %v", err)
	}

	log.Printf("[debug-pinata] OK uri=%s", uri)
}
