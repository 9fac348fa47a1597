// ABOUTME: CORS middleware for the simulator API
// ABOUTME: Handles preflight OPTIONS and adds required headers

package middleware

import "net/http"

// CORS adds permissive CORS headers so a browser dashboard can point at the
// simulator. OPTIONS preflight requests get 204 without calling the handler.
func CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
