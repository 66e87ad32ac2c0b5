// internal/infra/solana/instruction_builder_test.go
package solana

import (
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
)

func testBuildParams(t *testing.T) BuildParams {
	t.Helper()

	payer := NewMintIdentity()
	mint := NewMintIdentity()

	ata, err := DeriveAssociatedAccount(payer.PublicKey, mint.PublicKey)
	if err != nil {
		t.Fatalf("derive ATA: %v", err)
	}
	metadata, err := DeriveMetadataRecord(mint.PublicKey)
	if err != nil {
		t.Fatalf("derive metadata record: %v", err)
	}

	return BuildParams{
		Payer:             payer.PublicKey,
		Mint:              mint.PublicKey,
		AssociatedAccount: ata,
		MetadataRecord:    metadata,
		MintRent:          1_461_600,
		Decimals:          2,
		Supply:            500,
		Name:              "Demo",
		Symbol:            "DMO",
		MetadataURI:       "https://gateway.pinata.cloud/ipfs/QmDemo",
	}
}

func TestBuildCreateTokenInstructionsFixedOrder(t *testing.T) {
	ins, err := BuildCreateTokenInstructions(testBuildParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ins) != 5 {
		t.Fatalf("want exactly 5 instructions, got %d", len(ins))
	}

	// 固定順: create → init mint → create ATA → mint to → metadata
	wantPrograms := []common.PublicKey{
		common.SystemProgramID,
		common.TokenProgramID,
		common.SPLAssociatedTokenAccountProgramID,
		common.TokenProgramID,
		common.MetaplexTokenMetaProgramID,
	}
	for i, want := range wantPrograms {
		if ins[i].ProgramID != want {
			t.Fatalf("instruction %d: program = %s, want %s", i, ins[i].ProgramID.ToBase58(), want.ToBase58())
		}
	}
}

func TestBuildCreateTokenInstructionsOrderStableAcrossMagnitudes(t *testing.T) {
	p := testBuildParams(t)
	p.Decimals = 9
	p.Supply = 10_000_000_000 // 10^10 × 10^9 = 10^19、u64 に収まる上限近く

	ins, err := BuildCreateTokenInstructions(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ins) != 5 {
		t.Fatalf("want exactly 5 instructions, got %d", len(ins))
	}
}

func TestBuildCreateTokenInstructionsRejectsOverflow(t *testing.T) {
	p := testBuildParams(t)
	p.Decimals = 9
	p.Supply = 1_000_000_000_000

	if _, err := BuildCreateTokenInstructions(p); !errors.Is(err, ErrSupplyOverflow) {
		t.Fatalf("expected ErrSupplyOverflow, got %v", err)
	}
}

func TestBuildCreateTokenInstructionsRequiresMetadataURI(t *testing.T) {
	p := testBuildParams(t)
	p.MetadataURI = "   "

	if _, err := BuildCreateTokenInstructions(p); !errors.Is(err, ErrBuildMetadataURIEmpty) {
		t.Fatalf("expected ErrBuildMetadataURIEmpty, got %v", err)
	}
}
