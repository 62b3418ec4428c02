package httpapi

import "net/http"

func handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		markRoute(r.Context(), pattern)
		h.ServeHTTP(w, r)
	}))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	handle(mux, "GET /healthz", http.HandlerFunc(handler.Healthz))
	if metrics != nil {
		handle(mux, "GET /metrics", metrics)
	}
}

func registerQuestionRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "POST /v1/questions", http.HandlerFunc(handler.AskQuestion))
	handle(mux, "POST /v1/questions/batch", http.HandlerFunc(handler.AskQuestionBatch))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /v1/players", http.HandlerFunc(handler.ListPlayers))
	handle(mux, "POST /v1/players", http.HandlerFunc(handler.CreatePlayer))
	handle(mux, "GET /v1/players/{playerID}", http.HandlerFunc(handler.GetPlayer))
	handle(mux, "GET /v1/players/{playerID}/info", http.HandlerFunc(handler.GetPlayerInfo))
}
