package handlers

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"log"
	"net/http"

	"bridgerelay/redis"
	"bridgerelay/types"
)

// WriteSecretMessage persists the encrypted signing key blob, write-once.
// A second write is rejected: silently overwriting a working key is the
// operational mistake this endpoint exists to prevent.
func WriteSecretMessage(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &types.APIResponse{
			Status:  "error",
			Message: "Error reading request body",
		}, http.StatusBadRequest)
		return
	}

	var req types.WriteSecretMessageRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		responseJSON(w, &types.APIResponse{
			Status:  "error",
			Message: "Cannot unmarshal input JSON",
		}, http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		responseJSON(w, &types.APIResponse{
			Status:  "error",
			Field:   "message",
			Message: "Empty secret message",
		}, http.StatusBadRequest)
		return
	}

	err = store.SetSecretMessage(req.Message)
	if errors.Is(err, redis.ErrSecretExists) {
		responseJSON(w, &types.APIResponse{
			Status:  "error",
			Message: "A secret message is already stored",
		}, http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("Error storing secret message: %s", err.Error())
		responseJSON(w, &types.APIResponse{
			Status:  "error",
			Message: "Error storing secret message",
		}, http.StatusInternalServerError)
		return
	}

	if onSecretWritten != nil {
		if err := onSecretWritten(req.Message); err != nil {
			// stored but not usable with the configured password, the
			// operator has to sort this out before any chain write works
			log.Printf("Secret message stored but key not loaded: %s", err.Error())
			responseJSON(w, &types.APIResponse{
				Status:  "error",
				Message: err.Error(),
			}, http.StatusInternalServerError)
			return
		}
	}

	log.Print("Secret message stored, signing key loaded")
	responseJSON(w, &types.APIResponse{
		Status: "ok",
	}, http.StatusOK)
}
