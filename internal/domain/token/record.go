// internal/domain/token/record.go
package token

import (
	"errors"
	"strings"
	"time"
)

// ------------------------------------------------------
// MintOutcome (1 回のワークフローの終端値・成功側)
// ------------------------------------------------------

// MintOutcome はオーケストレーション 1 回分の成功結果です。
// FeeSignature は手数料トランザクションが成功した場合のみ入る。
// FeeFailure は「ミントは成功したが手数料だけ失敗した」ケースの人間可読メッセージで、
// ミント結果を覆い隠さずに手数料側の失敗を独立して報告するために持つ。
type MintOutcome struct {
	MintAddress  string `json:"mintAddress"`
	Signature    string `json:"signature"`
	MetadataURI  string `json:"metadataUri"`
	FeeSignature string `json:"feeSignature,omitempty"`
	FeeFailure   string `json:"feeFailure,omitempty"`
}

// ------------------------------------------------------
// Entity: MintRecord (token_mints コレクション 1 レコード)
// ------------------------------------------------------
//
// 想定テーブル構造:
//
// - id           : string    // = mintAddress
// - name         : string
// - symbol       : string
// - decimals     : int
// - supply       : int64     // スケーリング前の供給量
// - mintAddress  : string
// - signature    : string
// - metadataUri  : string
// - feeSignature : string    // 任意
// - createdAt    : time.Time
type MintRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Decimals     uint8     `json:"decimals"`
	Supply       uint64    `json:"supply"`
	MintAddress  string    `json:"mintAddress"`
	Signature    string    `json:"signature"`
	MetadataURI  string    `json:"metadataUri"`
	FeeSignature string    `json:"feeSignature,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrInvalidMintAddress = errors.New("token: invalid mintAddress")
	ErrInvalidSignature   = errors.New("token: invalid signature")
	ErrInvalidMetadataURI = errors.New("token: invalid metadataUri")
)

// NewMintRecord は成功した MintOutcome と元の Spec からレコードを組み立てます。
func NewMintRecord(s Spec, out MintOutcome, createdAt time.Time) (MintRecord, error) {
	addr := strings.TrimSpace(out.MintAddress)
	if addr == "" {
		return MintRecord{}, ErrInvalidMintAddress
	}

	sig := strings.TrimSpace(out.Signature)
	if sig == "" {
		return MintRecord{}, ErrInvalidSignature
	}

	uri := strings.TrimSpace(out.MetadataURI)
	if uri == "" {
		return MintRecord{}, ErrInvalidMetadataURI
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	r := MintRecord{
		ID:           addr,
		Name:         s.Name,
		Symbol:       s.Symbol,
		Decimals:     s.Decimals,
		Supply:       s.Supply,
		MintAddress:  addr,
		Signature:    sig,
		MetadataURI:  uri,
		FeeSignature: strings.TrimSpace(out.FeeSignature),
		CreatedAt:    createdAt.UTC(),
	}

	if err := r.Validate(); err != nil {
		return MintRecord{}, err
	}
	return r, nil
}

// Validate は保存前の一貫性チェックです。
func (r MintRecord) Validate() error {
	if strings.TrimSpace(r.MintAddress) == "" {
		return ErrInvalidMintAddress
	}
	if strings.TrimSpace(r.Signature) == "" {
		return ErrInvalidSignature
	}
	if strings.TrimSpace(r.MetadataURI) == "" {
		return ErrInvalidMetadataURI
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Symbol) == "" {
		return ErrInvalidSymbol
	}
	return nil
}
