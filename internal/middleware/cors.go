package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

const (
	allowedMethods = "POST, GET, OPTIONS"
	allowedHeaders = "Content-Type"
)

var corsHandler = cors.New(cors.Options{
	AllowedOrigins:     []string{"*"},
	AllowedMethods:     []string{http.MethodPost, http.MethodGet, http.MethodOptions},
	AllowedHeaders:     []string{"Content-Type"},
	OptionsPassthrough: true,
})

// CORS 允许任意来源访问，预检请求交给各路由自己的 OPTIONS 处理器应答。
func CORS(next http.Handler) http.Handler {
	return corsHandler.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		next.ServeHTTP(w, r)
	}))
}

// Preflight answers OPTIONS with 200, an empty body and the permissive headers.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", allowedMethods)
	h.Set("Access-Control-Allow-Headers", allowedHeaders)
	w.WriteHeader(http.StatusOK)
}
