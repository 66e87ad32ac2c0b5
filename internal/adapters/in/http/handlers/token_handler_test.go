// internal/adapters/in/http/handlers/token_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	usecase "tokenforge/internal/application/usecase"
	tokendom "tokenforge/internal/domain/token"
)

// ------------------------------------------------------
// fakes
// ------------------------------------------------------

type fakeRepo struct {
	recs   []tokendom.MintRecord
	getErr error
}

func (f *fakeRepo) Create(_ context.Context, r tokendom.MintRecord) (tokendom.MintRecord, error) {
	f.recs = append(f.recs, r)
	return r, nil
}

func (f *fakeRepo) GetByMintAddress(_ context.Context, mintAddress string) (tokendom.MintRecord, error) {
	if f.getErr != nil {
		return tokendom.MintRecord{}, f.getErr
	}
	for _, r := range f.recs {
		if r.MintAddress == mintAddress {
			return r, nil
		}
	}
	return tokendom.MintRecord{}, tokendom.ErrNotFound
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]tokendom.MintRecord, error) {
	if limit > len(f.recs) {
		limit = len(f.recs)
	}
	return f.recs[:limit], nil
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

func multipartCreateRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/tokens", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// ------------------------------------------------------
// tests
// ------------------------------------------------------

func TestDebugEndpoint(t *testing.T) {
	h := NewTokenHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tokens/debug", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type: %s", ct)
	}
}

func TestCreateWithoutUsecaseIsUnavailable(t *testing.T) {
	h := NewTokenHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, multipartCreateRequest(t, map[string]string{
		"name": "Demo", "symbol": "DMO", "supply": "500", "decimals": "2", "description": "x",
	}))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateRejectsBadSupply(t *testing.T) {
	// フォーム検証は usecase 呼び出し前に行われるため、コラボレータは不要
	h := NewTokenHandler(usecase.NewCreateTokenUsecase(nil, nil, nil, nil, nil, usecase.Options{}), nil)

	for _, supply := range []string{"", "0", "-5", "lots"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, multipartCreateRequest(t, map[string]string{
			"name": "Demo", "symbol": "DMO", "supply": supply, "decimals": "2", "description": "x",
		}))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("supply=%q status=%d body=%s", supply, rr.Code, rr.Body.String())
		}
	}
}

func TestCreateRejectsBadDecimals(t *testing.T) {
	h := NewTokenHandler(usecase.NewCreateTokenUsecase(nil, nil, nil, nil, nil, usecase.Options{}), nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, multipartCreateRequest(t, map[string]string{
		"name": "Demo", "symbol": "DMO", "supply": "500", "decimals": "10", "description": "x",
	}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestParseCreateTokenFormWithImageURI(t *testing.T) {
	req := multipartCreateRequest(t, map[string]string{
		"name": "Demo", "symbol": "DMO", "supply": "500", "decimals": "2",
		"description": "x",
		"imageUri":    "https://gateway.pinata.cloud/ipfs/QmImage",
	})

	in, err := parseCreateTokenForm(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Spec.Name != "Demo" || in.Spec.Supply != 500 || in.Spec.Decimals != 2 {
		t.Fatalf("unexpected spec: %+v", in.Spec)
	}
	if in.Spec.ImageURI != "https://gateway.pinata.cloud/ipfs/QmImage" {
		t.Fatalf("imageUri not picked up: %s", in.Spec.ImageURI)
	}
}

func TestParseCreateTokenFormWithImageFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "Demo", "symbol": "DMO", "supply": "500", "decimals": "2", "description": "x",
	} {
		_ = mw.WriteField(k, v)
	}
	fw, err := mw.CreateFormFile("image", "logo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/tokens", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := parseCreateTokenForm(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(in.Spec.Image) != "png-bytes" || in.ImageFilename != "logo.png" {
		t.Fatalf("image not parsed: len=%d filename=%s", len(in.Spec.Image), in.ImageFilename)
	}
}

func TestClassifyWorkflowError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{usecase.ErrWorkflowBusy, http.StatusConflict, "busy"},
		{&usecase.StageError{Stage: usecase.StageStart, Kind: usecase.KindValidation, Err: errors.New("x")}, http.StatusBadRequest, "validation"},
		{&usecase.StageError{Stage: usecase.StageStart, Kind: usecase.KindNoWallet, Err: errors.New("x")}, http.StatusServiceUnavailable, "no-wallet"},
		{&usecase.StageError{Stage: usecase.StagePublishing, Kind: usecase.KindPublish, Err: errors.New("x")}, http.StatusBadGateway, "publish"},
		{&usecase.StageError{Stage: usecase.StageFeeCharging, Kind: usecase.KindFee, Err: errors.New("x")}, http.StatusBadGateway, "fee"},
		{&usecase.StageError{Stage: usecase.StageSubmitting, Kind: usecase.KindSubmission, Err: errors.New("x")}, http.StatusBadGateway, "submission"},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, c := range cases {
		status, _, kind := classifyWorkflowError(c.err)
		if status != c.status || kind != c.kind {
			t.Fatalf("classify(%v) = %d/%s, want %d/%s", c.err, status, kind, c.status, c.kind)
		}
	}
}

func TestListWithoutRepositoryReturnsEmptyArray(t *testing.T) {
	h := NewTokenHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tokens", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	if rr.Body.String() != "[]" {
		t.Fatalf("body: %s", rr.Body.String())
	}
}

func TestListReturnsRecords(t *testing.T) {
	repo := &fakeRepo{recs: []tokendom.MintRecord{
		{ID: "m1", MintAddress: "m1", Name: "Demo", Symbol: "DMO", Signature: "s1", MetadataURI: "u1"},
		{ID: "m2", MintAddress: "m2", Name: "Demo2", Symbol: "DM2", Signature: "s2", MetadataURI: "u2"},
	}}
	h := NewTokenHandler(nil, repo)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tokens?limit=1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	var got []tokendom.MintRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].MintAddress != "m1" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestGetByMintAddress(t *testing.T) {
	repo := &fakeRepo{recs: []tokendom.MintRecord{
		{ID: "m1", MintAddress: "m1", Name: "Demo", Symbol: "DMO", Signature: "s1", MetadataURI: "u1"},
	}}
	h := NewTokenHandler(nil, repo)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tokens/m1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rr.Code, rr.Body.String())
	}
	var got tokendom.MintRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MintAddress != "m1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetUnknownMintIs404(t *testing.T) {
	h := NewTokenHandler(nil, &fakeRepo{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tokens/unknown", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	h := NewTokenHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/tokens", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rr.Code)
	}
}
