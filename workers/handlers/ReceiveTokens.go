package handlers

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"bridgerelay/types"
)

// ReceiveTokens triggers the release of everything pending for an address
// on the target network. Busy-gated like WriteTransaction: the submitter
// is not re-entrant.
func ReceiveTokens(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "Error reading request body"},
		}, http.StatusBadRequest)
		return
	}

	var req types.ReceiveTokensRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "Cannot unmarshal input JSON"},
		}, http.StatusBadRequest)
		return
	}

	if err := validAddress(req.Address); err != nil {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "No address or invalid address provided"},
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(req.SourceNetwork); err != nil {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "Source network not provided or not supported"},
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(req.TargetNetwork); err != nil {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "Target network not provided or not supported"},
		}, http.StatusBadRequest)
		return
	}

	if !tryAcquireBusy() {
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: "busy"},
		}, http.StatusServiceUnavailable)
		return
	}
	defer releaseBusy()

	res, err := submitter.ReleaseTokens(r.Context(), req.Address, req.SourceNetwork, req.TargetNetwork)
	if err != nil {
		// surfaced verbatim, the revert reason is what the user needs
		log.Printf("Error releasing tokens for %s on %s: %s", req.Address, req.TargetNetwork, err.Error())
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "error",
			Body:   types.ReceiveBody{Message: err.Error()},
		}, http.StatusInternalServerError)
		return
	}

	if res.TxHash == "" {
		// nothing was pending, a success with nothing to do
		responseJSON(w, &types.ReceiveTokensResponse{
			Status: "ok",
		}, http.StatusOK)
		return
	}

	responseJSON(w, &types.ReceiveTokensResponse{
		Status: "ok",
		Body: types.ReceiveBody{
			Tx:  res.TxHash,
			Gas: res.GasCost.String(),
		},
	}, http.StatusOK)
}
