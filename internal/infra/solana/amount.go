// internal/infra/solana/amount.go
package solana

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// lamportsPerSOL は 1 SOL あたりの lamports 数です。
const lamportsPerSOL = 1_000_000_000

var (
	ErrSupplyOverflow  = errors.New("solana: scaled supply exceeds u64")
	ErrInvalidSOLValue = errors.New("solana: invalid SOL amount")
)

// ScaledSupply は supply × 10^decimals をベース単位（u64）で返します。
// decimals 0〜9 と大きな supply の組み合わせは float の精度を超えるため、
// 必ず math/big で計算し、u64 を超える場合はエラーにする（黙って切り捨てない）。
func ScaledSupply(supply uint64, decimals uint8) (uint64, error) {
	scaled := new(big.Int).Mul(
		new(big.Int).SetUint64(supply),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
	)

	if !scaled.IsUint64() {
		return 0, fmt.Errorf("%w: supply=%d decimals=%d", ErrSupplyOverflow, supply, decimals)
	}
	return scaled.Uint64(), nil
}

// ParseSOLToLamports は "0.05" のような 10 進 SOL 文字列を lamports に変換します。
// 浮動小数点を経由せず文字列のまま桁合わせする（手数料設定値の精度保証）。
func ParseSOLToLamports(s string) (uint64, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSOLValue, s)
	}

	intPart := v
	fracPart := ""
	if i := strings.IndexByte(v, '.'); i >= 0 {
		intPart = v[:i]
		fracPart = v[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSOLValue, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 9 {
		return 0, fmt.Errorf("%w: %q has more than 9 fractional digits", ErrInvalidSOLValue, s)
	}
	// 9 桁に右 0 埋めして lamports の桁に揃える
	fracPart += strings.Repeat("0", 9-len(fracPart))

	whole, ok := parseDigits(intPart)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSOLValue, s)
	}
	frac, ok := parseDigits(fracPart)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSOLValue, s)
	}

	if whole > (math.MaxUint64-frac)/lamportsPerSOL {
		return 0, fmt.Errorf("%w: %q overflows u64 lamports", ErrInvalidSOLValue, s)
	}
	return whole*lamportsPerSOL + frac, nil
}

func parseDigits(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var n uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// maskShort はログ用にアドレス・シグネチャを短縮表示します。
func maskShort(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
