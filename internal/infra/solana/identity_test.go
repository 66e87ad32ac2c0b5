// internal/infra/solana/identity_test.go
package solana

import "testing"

func TestNewMintIdentityUnique(t *testing.T) {
	a := NewMintIdentity()
	b := NewMintIdentity()
	if a.PublicKey == b.PublicKey {
		t.Fatal("two generated mint identities must not collide")
	}
}

func TestDeriveAssociatedAccountDeterministic(t *testing.T) {
	owner := NewMintIdentity().PublicKey
	mint := NewMintIdentity().PublicKey

	first, err := DeriveAssociatedAccount(owner, mint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DeriveAssociatedAccount(owner, mint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("derivation must be deterministic: %s != %s", first.ToBase58(), second.ToBase58())
	}
}

func TestDeriveMetadataRecordDeterministic(t *testing.T) {
	mint := NewMintIdentity().PublicKey

	first, err := DeriveMetadataRecord(mint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DeriveMetadataRecord(mint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("derivation must be deterministic: %s != %s", first.ToBase58(), second.ToBase58())
	}
}

func TestDeriveDistinctMintsDistinctRecords(t *testing.T) {
	a, err := DeriveMetadataRecord(NewMintIdentity().PublicKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := DeriveMetadataRecord(NewMintIdentity().PublicKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("different mints must derive different metadata records")
	}
}
