// internal/domain/token/metadata.go
package token

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// MetadataDocument (オフチェーンに pin する JSON 本体)
// ------------------------------------------------------
//
// ピン留めサービスへそのまま JSON としてアップロードされる。
// オンチェーン側のメタデータレコードはこの JSON の URI を参照するため、
// pin の戻り値 URI とオンチェーンレコードの uri は必ず一致していなければならない。
type MetadataDocument struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

var (
	ErrMetadataNameEmpty        = errors.New("token: metadata name is empty")
	ErrMetadataSymbolEmpty      = errors.New("token: metadata symbol is empty")
	ErrMetadataDescriptionEmpty = errors.New("token: metadata description is empty")
	ErrMetadataImageEmpty       = errors.New("token: metadata image uri is empty")
)

// NewMetadataDocument は Spec と解決済みの画像 URI からドキュメントを組み立てます。
func NewMetadataDocument(s Spec, imageURI string) MetadataDocument {
	return MetadataDocument{
		Name:        strings.TrimSpace(s.Name),
		Symbol:      strings.TrimSpace(s.Symbol),
		Description: strings.TrimSpace(s.Description),
		Image:       strings.TrimSpace(imageURI),
	}
}

// Validate は 4 フィールドすべてが埋まっているかを検証します。
// 1 つでも欠けていれば pin のネットワーク呼び出しを行ってはならない。
func (d MetadataDocument) Validate() error {
	if d.Name == "" {
		return ErrMetadataNameEmpty
	}
	if d.Symbol == "" {
		return ErrMetadataSymbolEmpty
	}
	if d.Description == "" {
		return ErrMetadataDescriptionEmpty
	}
	if d.Image == "" {
		return ErrMetadataImageEmpty
	}
	return nil
}
