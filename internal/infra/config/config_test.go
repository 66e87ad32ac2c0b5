// internal/infra/config/config_test.go
package config

import (
	"errors"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "SOLANA_RPC_URL", "SOLANA_CONFIRM_TIMEOUT_SEC",
		"SOLANA_FEE", "SOLANA_FEE_RECEIVER", "FEE_POLICY",
		"SOLANA_PAYER_KEY_SECRET", "SOLANA_PAYER_KEY_JSON",
		"PINATA_API_BASE", "PINATA_GATEWAY_BASE",
		"PINATA_API_KEY", "PINATA_SECRET_KEY",
		"PINATA_API_KEY_SECRET", "PINATA_SECRET_KEY_SECRET",
		"FIRESTORE_PROJECT_ID",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port: %s", cfg.Port)
	}
	if cfg.SolanaRPCURL != "https://api.devnet.solana.com" {
		t.Fatalf("default rpc url: %s", cfg.SolanaRPCURL)
	}
	if cfg.ConfirmTimeout != 60*time.Second {
		t.Fatalf("default confirm timeout: %v", cfg.ConfirmTimeout)
	}
	if cfg.PinataAPIBase != "https://api.pinata.cloud" {
		t.Fatalf("default pinata api base: %s", cfg.PinataAPIBase)
	}
	if cfg.FeePolicy != FeePolicyBefore {
		t.Fatalf("default fee policy: %s", cfg.FeePolicy)
	}
}

func TestLoadConfirmTimeoutFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLANA_CONFIRM_TIMEOUT_SEC", "90")

	if cfg := Load(); cfg.ConfirmTimeout != 90*time.Second {
		t.Fatalf("confirm timeout: %v", cfg.ConfirmTimeout)
	}
}

func TestLoadConfirmTimeoutIgnoresGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLANA_CONFIRM_TIMEOUT_SEC", "zero")

	if cfg := Load(); cfg.ConfirmTimeout != 60*time.Second {
		t.Fatalf("garbage timeout should fall back to default: %v", cfg.ConfirmTimeout)
	}
}

func validTestConfig() *Config {
	return &Config{
		FeePolicy:       FeePolicyBefore,
		FeeSOL:          "0.05",
		FeeReceiver:     "GsbwXfJraMomNxBcjYLcG3mxkBUiyWXAB32fGbSMQRdW",
		PinataAPIKey:    "key",
		PinataSecretKey: "secret",
	}
}

func TestValidateOK(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresFeeReceiver(t *testing.T) {
	cfg := validTestConfig()
	cfg.FeeReceiver = ""
	if err := cfg.Validate(); !errors.Is(err, ErrFeeReceiverMissing) {
		t.Fatalf("expected ErrFeeReceiverMissing, got %v", err)
	}
}

func TestValidateRequiresFeeAmount(t *testing.T) {
	cfg := validTestConfig()
	cfg.FeeSOL = ""
	if err := cfg.Validate(); !errors.Is(err, ErrFeeAmountMissing) {
		t.Fatalf("expected ErrFeeAmountMissing, got %v", err)
	}
}

func TestValidateFeeDisabledSkipsFeeFields(t *testing.T) {
	cfg := validTestConfig()
	cfg.FeePolicy = FeePolicyDisabled
	cfg.FeeSOL = ""
	cfg.FeeReceiver = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled policy should not require fee fields: %v", err)
	}
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := validTestConfig()
	cfg.FeePolicy = FeePolicy("sometimes")
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown fee policy should fail")
	}
}

func TestValidateRequiresPinataCredentials(t *testing.T) {
	cfg := validTestConfig()
	cfg.PinataAPIKey = ""
	if err := cfg.Validate(); !errors.Is(err, ErrPinataKeyMissing) {
		t.Fatalf("expected ErrPinataKeyMissing, got %v", err)
	}

	cfg = validTestConfig()
	cfg.PinataSecretKey = ""
	if err := cfg.Validate(); !errors.Is(err, ErrPinataSecMissing) {
		t.Fatalf("expected ErrPinataSecMissing, got %v", err)
	}
}

func TestValidateAcceptsSecretManagerCredentials(t *testing.T) {
	cfg := validTestConfig()
	cfg.PinataAPIKey = ""
	cfg.PinataSecretKey = ""
	cfg.PinataAPIKeySecret = "projects/p/secrets/pinata-key/versions/latest"
	cfg.PinataSecretKeySecret = "projects/p/secrets/pinata-secret/versions/latest"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("secret names should satisfy credential requirement: %v", err)
	}
}

func TestFeeEnabled(t *testing.T) {
	for policy, want := range map[FeePolicy]bool{
		FeePolicyBefore:   true,
		FeePolicyAfter:    true,
		FeePolicyDisabled: false,
	} {
		cfg := &Config{FeePolicy: policy}
		if cfg.FeeEnabled() != want {
			t.Fatalf("FeeEnabled(%s) = %v, want %v", policy, cfg.FeeEnabled(), want)
		}
	}
}
