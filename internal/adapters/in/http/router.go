// internal/adapters/in/http/router.go
package http

import (
	"net/http"

	"tokenforge/internal/adapters/in/http/middleware"
)

// Deps はルーターに登録するハンドラ群です。
type Deps struct {
	Token http.Handler
}

// NewRouter はアプリケーションルートを組み立てます。
// Recover は内側、CORS は main 側の外側で付ける（チェーン順が重要）。
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	if deps.Token != nil {
		mux.Handle("/tokens", deps.Token)
		mux.Handle("/tokens/", deps.Token)
	}

	return middleware.Recover(mux)
}
