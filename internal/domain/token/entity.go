// internal/domain/token/entity.go
package token

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// Entity: Spec (ユーザーが入力するトークン作成意図)
// ------------------------------------------------------
//
// 想定フィールド:
//
// - name        : string   // トークン名（必須）
// - symbol      : string   // シンボル（必須）
// - decimals    : uint8    // 小数桁数（0〜9）
// - supply      : uint64   // 初期供給量（スケーリング前・正の整数）
// - description : string   // メタデータ説明文
// - image       : []byte   // 画像アセット（アップロード前の生バイト・任意）
// - imageURI    : string   // アップロード済みの場合のゲートウェイ URI（任意）
//
// image / imageURI はどちらか一方が入っていればワークフローを開始できる。
type Spec struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	Supply      uint64 `json:"supply"`
	Description string `json:"description"`

	// 画像はアップロード前（生バイト）かアップロード済み（URI）のどちらか。
	Image    []byte `json:"-"`
	ImageURI string `json:"imageUri,omitempty"`
}

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidName     = errors.New("token: invalid name")
	ErrInvalidSymbol   = errors.New("token: invalid symbol")
	ErrInvalidDecimals = errors.New("token: decimals out of range (0-9)")
	ErrInvalidSupply   = errors.New("token: supply must be positive")
	ErrMissingImage    = errors.New("token: image asset or image uri is required")
	ErrNotFound        = errors.New("token: not found")
)

// MaxDecimals は SPL トークンで扱える小数桁数の上限です。
const MaxDecimals = 9

// ------------------------------------------------------
// Constructors
// ------------------------------------------------------

// NewSpec は入力値を正規化・検証して Spec を返します。
// description は空でも Spec としては有効（メタデータ公開時に別途検証される）。
func NewSpec(
	name string,
	symbol string,
	decimals uint8,
	supply uint64,
	description string,
) (Spec, error) {

	n := strings.TrimSpace(name)
	if n == "" {
		return Spec{}, ErrInvalidName
	}

	sym := strings.TrimSpace(symbol)
	if sym == "" {
		return Spec{}, ErrInvalidSymbol
	}

	if decimals > MaxDecimals {
		return Spec{}, ErrInvalidDecimals
	}

	if supply == 0 {
		return Spec{}, ErrInvalidSupply
	}

	return Spec{
		Name:        n,
		Symbol:      sym,
		Decimals:    decimals,
		Supply:      supply,
		Description: strings.TrimSpace(description),
	}, nil
}

// HasImage は画像アセットまたはアップロード済み URI のどちらかを持っているかを返します。
func (s Spec) HasImage() bool {
	return len(s.Image) > 0 || strings.TrimSpace(s.ImageURI) != ""
}

// Validate は Spec 全体の一貫性チェックです。
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(s.Symbol) == "" {
		return ErrInvalidSymbol
	}
	if s.Decimals > MaxDecimals {
		return ErrInvalidDecimals
	}
	if s.Supply == 0 {
		return ErrInvalidSupply
	}
	return nil
}
