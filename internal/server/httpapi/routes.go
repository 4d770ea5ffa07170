package httpapi

import "net/http"

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /{username}/upload", s.handleUpload)
	mux.HandleFunc("GET /{username}/video/{id}", s.handleFetch)

	var h http.Handler = mux
	h = s.withAuth(h)
	h = s.withRecover(h)
	h = s.withLogging(h)
	h = withRequestID(h)
	return h
}
