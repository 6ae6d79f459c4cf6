package main

import (
	"net/http"

	"github.com/Jacobbrewer1/kira/pkg/request"
	"github.com/gorilla/mux"
)

// guildStatsHandler serves the open ticket counters of a guild.
func (a *App) guildStatsHandler() Controller {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := mux.Vars(r)["guildID"]

		stats, err := openTicketStats(r.Context(), a.store, guildID)
		if err != nil {
			request.Error(a.Logger, w, http.StatusInternalServerError, "Error counting open tickets", err)
			return
		}

		request.Encode(a.Logger, w, http.StatusOK, stats)
	}
}
