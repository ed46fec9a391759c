package controllers

import (
	"net/http"

	"github.com/angelmondragon/routes-report/api/responses"
	"github.com/angelmondragon/routes-report/internal/report"
)

type clientLister interface {
	Clients() []report.ClientInfo
}

// ListClients returns the configured client names. Tokens are never exposed.
func ListClients(svc clientLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"clients": svc.Clients()})
	}
}
