// internal/adapters/out/firestore/token_mint_repository_fs_test.go
package firestore

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tokendom "tokenforge/internal/domain/token"
)

func TestMapGetErrNotFoundByStatusCode(t *testing.T) {
	// メッセージの文言ではなくステータスコードで判定すること
	err := status.Error(codes.NotFound, "requested entity was missing")
	if got := mapGetErr(err); !errors.Is(got, tokendom.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", got)
	}
}

func TestMapGetErrPassesThroughOtherCodes(t *testing.T) {
	err := status.Error(codes.PermissionDenied, "not found in this project") // 紛らわしい文言
	if got := mapGetErr(err); errors.Is(got, tokendom.ErrNotFound) {
		t.Fatalf("PermissionDenied must not map to ErrNotFound: %v", got)
	}

	plain := errors.New("connection reset")
	if got := mapGetErr(plain); got != plain {
		t.Fatalf("non-grpc error must pass through unchanged: %v", got)
	}
}

func TestDecodeMintRecord(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rec := decodeMintRecord("MintAddr", map[string]interface{}{
		"name":        "Demo",
		"symbol":      "DMO",
		"decimals":    int64(2),
		"supply":      int64(500),
		"mintAddress": "MintAddr",
		"signature":   "sig",
		"metadataUri": "uri",
		"createdAt":   created,
	})

	if rec.ID != "MintAddr" || rec.Name != "Demo" || rec.Decimals != 2 || rec.Supply != 500 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Fatalf("createdAt: %v", rec.CreatedAt)
	}
}

func TestDecodeMintRecordToleratesLegacyDocuments(t *testing.T) {
	// 旧スキーマで mintAddress が欠けていても docId から復元できること
	rec := decodeMintRecord("MintAddr", map[string]interface{}{
		"name": "Demo",
	})
	if rec.MintAddress != "MintAddr" {
		t.Fatalf("mintAddress should fall back to doc id: %+v", rec)
	}
	if rec.Supply != 0 || rec.Decimals != 0 {
		t.Fatalf("missing numeric fields should stay zero: %+v", rec)
	}
}
