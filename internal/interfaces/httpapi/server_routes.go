package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if handler.metricsHandler != nil {
		mux.Handle("GET /metrics", handler.metricsHandler)
	}
}

func registerTrixieRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/trixies/generate", handler.GenerateTrixies)
	mux.HandleFunc("GET /v1/trixies/{date}/{seed}", handler.GetCachedTrixies)
	mux.HandleFunc("POST /v1/pricing/quote", handler.QuoteLeg)
}

func registerAuditRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/audit/tickets", handler.ListTickets)
	mux.HandleFunc("POST /v1/audit/tickets", handler.LogTicket)
	mux.HandleFunc("POST /v1/audit/tickets/{ticketID}/validate", handler.ValidateTicket)
	mux.HandleFunc("POST /v1/audit/tickets/{ticketID}/void", handler.VoidTicket)
	mux.HandleFunc("POST /v1/audit/validate-pending", handler.ValidatePendingTickets)
}

func registerReferenceRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/injuries", handler.GetInjuries)
	mux.HandleFunc("POST /v1/injuries/refresh", handler.RefreshInjuries)
	mux.HandleFunc("POST /v1/slate/games", handler.BuildSlate)
	mux.HandleFunc("GET /v1/odds/events/{eventID}/props", handler.ListEventProps)
	mux.HandleFunc("GET /v1/tables", handler.GetTables)
	mux.HandleFunc("PUT /v1/tables", handler.SaveTables)
}
