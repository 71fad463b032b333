package handlers

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"bridgerelay/types"
)

// GetFee returns the currently quoted release fee for a network: the gas
// cost of the last successful release there. Deliberately stale if gas
// prices moved since.
func GetFee(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &types.GetFeeResponse{
			Status: "error",
			Body:   types.FeeBody{Err: "Error reading request body"},
		}, http.StatusBadRequest)
		return
	}

	var req types.GetFeeRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		responseJSON(w, &types.GetFeeResponse{
			Status: "error",
			Body:   types.FeeBody{Err: "Cannot unmarshal input JSON"},
		}, http.StatusBadRequest)
		return
	}

	if err := validNetwork(req.Network); err != nil {
		responseJSON(w, &types.GetFeeResponse{
			Status: "error",
			Body:   types.FeeBody{Err: "Network not provided or not supported"},
		}, http.StatusBadRequest)
		return
	}

	fee, err := fees.GetFeeQuote(req.Network)
	if err != nil {
		log.Printf("Error reading fee quote for %s: %s", req.Network, err.Error())
		responseJSON(w, &types.GetFeeResponse{
			Status: "error",
			Body:   types.FeeBody{Err: err.Error()},
		}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, &types.GetFeeResponse{
		Status: "ok",
		Body:   types.FeeBody{Fee: fee.String()},
	}, http.StatusOK)
}
