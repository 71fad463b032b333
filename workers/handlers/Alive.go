package handlers

import (
	"net/http"

	"bridgerelay/types"
)

// Clients poll this before a bridge attempt is allowed to start.
func Alive(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &types.APIResponse{
		Status: "ok",
	}, http.StatusOK)
}
