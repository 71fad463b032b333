package handlers

import (
	"net/http"
)

func GetRelayWrites(w http.ResponseWriter, r *http.Request) {
	recs, err := store.ListRelayWrites()
	if err != nil {
		responseJSON(w, nil, http.StatusInternalServerError)
		return
	}

	responseJSON(w, recs, http.StatusOK)
}
