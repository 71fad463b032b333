package handlers

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"bridgerelay/bridge"
	"bridgerelay/types"
)

func GetTokensPending(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: "Error reading request body"},
		}, http.StatusBadRequest)
		return
	}

	var req types.GetTokensPendingRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: "Cannot unmarshal input JSON"},
		}, http.StatusBadRequest)
		return
	}

	if err := validAddress(req.Address); err != nil {
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: "No address or invalid address provided"},
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(req.SourceNetwork); err != nil {
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: "Source network not provided or not supported"},
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(req.TargetNetwork); err != nil {
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: "Target network not provided or not supported"},
		}, http.StatusBadRequest)
		return
	}

	pending, err := bridge.GetPendingAmount(r.Context(), chains, req.Address, req.SourceNetwork, req.TargetNetwork)
	if err != nil {
		// a failed read is NOT zero pending, the caller must see the error
		log.Printf("Error computing pending amount for %s: %s", req.Address, err.Error())
		responseJSON(w, &types.GetTokensPendingResponse{
			Status: "error",
			Body:   types.PendingBody{Err: err.Error()},
		}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, &types.GetTokensPendingResponse{
		Status: "ok",
		Body:   types.PendingBody{TokensPending: pending.String()},
	}, http.StatusOK)
}
