// internal/infra/pinata/uploader.go
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	tokendom "tokenforge/internal/domain/token"
)

// Pinata の pinning API を叩く実装。
// 画像は pinFileToIPFS（multipart）、メタデータ JSON は pinJSONToIPFS に POST し、
// 返ってきたコンテンツハッシュを <gateway-base>/ipfs/<hash> の URI に組み立てて返す。
type Uploader struct {
	client      *http.Client
	apiBase     string // 例: "https://api.pinata.cloud"
	gatewayBase string // 例: "https://gateway.pinata.cloud"
	apiKey      string
	secretKey   string
}

// NewUploader は Pinata 用の HTTP uploader を生成します。
func NewUploader(apiBase, gatewayBase, apiKey, secretKey string) *Uploader {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	gatewayBase = strings.TrimRight(strings.TrimSpace(gatewayBase), "/")

	return &Uploader{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiBase:     apiBase,
		gatewayBase: gatewayBase,
		apiKey:      strings.TrimSpace(apiKey),
		secretKey:   strings.TrimSpace(secretKey),
	}
}

// pinResponse は pinning API 共通のレスポンス形式です。
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinJSON はメタデータドキュメントを pinJSONToIPFS にアップロードし、
// ゲートウェイ URI を返します。ドキュメントの検証は呼び出し側
// （orchestrator → token.MetadataDocument.Validate）で済んでいる前提。
func (u *Uploader) PinJSON(ctx context.Context, doc tokendom.MetadataDocument) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal metadata document: %w", err)
	}

	log.Printf("[pinata] PinJSON start name=%q symbol=%q len=%d", doc.Name, doc.Symbol, len(body))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.apiBase+"/pinning/pinJSONToIPFS",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	u.setAuth(req)

	hash, err := u.doPin(req)
	if err != nil {
		return "", fmt.Errorf("pin metadata json: %w", err)
	}

	uri := u.gatewayURI(hash)
	log.Printf("[pinata] PinJSON OK uri=%s", uri)
	return uri, nil
}

// PinFile は画像アセットを pinFileToIPFS に multipart でアップロードし、
// ゲートウェイ URI を返します。
func (u *Uploader) PinFile(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file data is empty")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "asset"
	}

	log.Printf("[pinata] PinFile start filename=%q len=%d", filename, len(data))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.apiBase+"/pinning/pinFileToIPFS",
		&buf,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	u.setAuth(req)

	hash, err := u.doPin(req)
	if err != nil {
		return "", fmt.Errorf("pin file: %w", err)
	}

	uri := u.gatewayURI(hash)
	log.Printf("[pinata] PinFile OK uri=%s", uri)
	return uri, nil
}

// doPin はリクエストを送信し、IpfsHash を取り出します。
func (u *Uploader) doPin(req *http.Request) (string, error) {
	if u.apiBase == "" {
		return "", fmt.Errorf("apiBase is empty; pinata endpoint not configured")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[pinata] http request FAILED err=%v", err)
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[pinata] pin FAILED status=%d body=%s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("pin failed: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var res pinResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Printf("[pinata] decode pin response FAILED err=%v body=%s", err, string(bodyBytes))
		return "", fmt.Errorf("decode pin response: %w", err)
	}
	if strings.TrimSpace(res.IpfsHash) == "" {
		return "", fmt.Errorf("pin response has empty IpfsHash")
	}

	return strings.TrimSpace(res.IpfsHash), nil
}

func (u *Uploader) setAuth(req *http.Request) {
	req.Header.Set("pinata_api_key", u.apiKey)
	req.Header.Set("pinata_secret_api_key", u.secretKey)
}

func (u *Uploader) gatewayURI(hash string) string {
	return u.gatewayBase + "/ipfs/" + hash
}
