// internal/adapters/in/http/handlers/token_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	usecase "tokenforge/internal/application/usecase"
	tokendom "tokenforge/internal/domain/token"
)

// maxImageBytes は multipart で受け付ける画像アセットの上限です。
const maxImageBytes = 16 << 20 // 16MiB

// TokenHandler はトークン作成ワークフローの HTTP 入口です。
// - POST /tokens           : ワークフロー実行（multipart form）
// - GET  /tokens           : ミント履歴一覧
// - GET  /tokens/{mint}    : ミント履歴 1 件
// - GET  /tokens/debug     : 疎通確認
type TokenHandler struct {
	createUC *usecase.CreateTokenUsecase
	records  tokendom.MintRecordRepository // nil なら履歴系は 404 相当
}

func NewTokenHandler(
	createUC *usecase.CreateTokenUsecase,
	records tokendom.MintRecordRepository,
) http.Handler {
	return &TokenHandler{
		createUC: createUC,
		records:  records,
	}
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	log.Printf("[token_handler] request method=%s path=%s", r.Method, r.URL.Path)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/tokens/debug":
		_, _ = w.Write([]byte(`{"ok": true, "msg": "Token API alive"}`))
		return

	case r.Method == http.MethodPost && r.URL.Path == "/tokens":
		h.handleCreate(w, r)
		return

	case r.Method == http.MethodGet && r.URL.Path == "/tokens":
		h.handleList(w, r)
		return

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/tokens/"):
		h.handleGet(w, r)
		return

	default:
		writeError(w, http.StatusNotFound, "not found", "", "")
		return
	}
}

// ------------------------------------------------------
// POST /tokens
// ------------------------------------------------------

func (h *TokenHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if h.createUC == nil {
		writeError(w, http.StatusServiceUnavailable, "token creation is not configured", "", "")
		return
	}

	in, err := parseCreateTokenForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), string(usecase.StageStart), string(usecase.KindValidation))
		return
	}

	outcome, err := h.createUC.CreateToken(r.Context(), in)
	if err != nil {
		status, stage, kind := classifyWorkflowError(err)
		writeError(w, status, err.Error(), stage, kind)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(outcome)
}

// parseCreateTokenForm は multipart form からワークフロー入力を組み立てます。
// フォーム項目: name / symbol / supply / decimals / description / image(file) / imageUri
func parseCreateTokenForm(r *http.Request) (usecase.CreateTokenInput, error) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return usecase.CreateTokenInput{}, errors.New("invalid multipart form: " + err.Error())
	}

	supplyStr := strings.TrimSpace(r.FormValue("supply"))
	supply, err := strconv.ParseUint(supplyStr, 10, 64)
	if err != nil || supply == 0 {
		return usecase.CreateTokenInput{}, errors.New("supply must be a positive integer")
	}

	decimalsStr := strings.TrimSpace(r.FormValue("decimals"))
	decimals, err := strconv.ParseUint(decimalsStr, 10, 8)
	if err != nil || decimals > tokendom.MaxDecimals {
		return usecase.CreateTokenInput{}, errors.New("decimals must be an integer between 0 and 9")
	}

	spec, err := tokendom.NewSpec(
		r.FormValue("name"),
		r.FormValue("symbol"),
		uint8(decimals),
		supply,
		r.FormValue("description"),
	)
	if err != nil {
		return usecase.CreateTokenInput{}, err
	}

	in := usecase.CreateTokenInput{Spec: spec}

	// 画像はファイルそのもの、またはアップロード済み URI のどちらかで受け付ける
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if readErr != nil {
			return usecase.CreateTokenInput{}, errors.New("read image: " + readErr.Error())
		}
		if len(data) > maxImageBytes {
			return usecase.CreateTokenInput{}, errors.New("image exceeds size limit")
		}
		in.Spec.Image = data
		in.ImageFilename = header.Filename
	} else if uri := strings.TrimSpace(r.FormValue("imageUri")); uri != "" {
		in.Spec.ImageURI = uri
	}

	return in, nil
}

// classifyWorkflowError は orchestrator の失敗を HTTP ステータスに写像します。
func classifyWorkflowError(err error) (status int, stage, kind string) {
	if errors.Is(err, usecase.ErrWorkflowBusy) {
		return http.StatusConflict, "", "busy"
	}

	if se, ok := usecase.AsStageError(err); ok {
		switch se.Kind {
		case usecase.KindValidation:
			return http.StatusBadRequest, string(se.Stage), string(se.Kind)
		case usecase.KindNoWallet:
			return http.StatusServiceUnavailable, string(se.Stage), string(se.Kind)
		case usecase.KindPublish, usecase.KindFee, usecase.KindSubmission:
			return http.StatusBadGateway, string(se.Stage), string(se.Kind)
		}
	}

	return http.StatusInternalServerError, "", ""
}

// ------------------------------------------------------
// GET /tokens, GET /tokens/{mint}
// ------------------------------------------------------

func (h *TokenHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		// 永続化なし運用では空配列を返す
		_, _ = w.Write([]byte(`[]`))
		return
	}

	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	recs, err := h.records.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("[token_handler] list failed err=%v", err)
		writeError(w, http.StatusInternalServerError, "failed to list mint records", "", "")
		return
	}

	_ = json.NewEncoder(w).Encode(recs)
}

func (h *TokenHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	mintAddr := strings.TrimPrefix(r.URL.Path, "/tokens/")
	if mintAddr == "" || h.records == nil {
		writeError(w, http.StatusNotFound, "not found", "", "")
		return
	}

	rec, err := h.records.GetByMintAddress(r.Context(), mintAddr)
	if err != nil {
		if errors.Is(err, tokendom.ErrNotFound) {
			writeError(w, http.StatusNotFound, "mint record not found", "", "")
			return
		}
		log.Printf("[token_handler] get failed mint=%s err=%v", mintAddr, err)
		writeError(w, http.StatusInternalServerError, "failed to load mint record", "", "")
		return
	}

	_ = json.NewEncoder(w).Encode(rec)
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, stage, kind string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, Stage: stage, Kind: kind})
}
