package handlers

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"bridgerelay/config"
	"bridgerelay/types"
)

// WriteTransaction is the relay's on-chain confirmation of a user's
// transfer intent. The whole handler runs under the busy gate; a request
// arriving while another is in flight gets an immediate "busy" and the
// client retries the same server after its fixed delay.
func WriteTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %s", err.Error())
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  "Error reading request body",
		}, http.StatusBadRequest)
		return
	}

	var req types.WriteTransactionRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		log.Printf("Error unmarshalling request body: %s\n", err.Error())
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  "Cannot unmarshal input JSON",
		}, http.StatusBadRequest)
		return
	}

	// prev. bridge implementation sent typeRecieve/typeSwap instead of
	// network names
	targetNetwork := req.TargetNetwork
	if targetNetwork == "" {
		targetNetwork = req.TypeRecieve
	}
	sourceNetwork := req.SourceNetwork
	if sourceNetwork == "" {
		sourceNetwork = req.TypeSwap
	}
	if sourceNetwork == "" && targetNetwork != "" {
		// clients may send only the target; the source is implied while
		// the network table holds exactly two entries
		if inferred, err := config.CounterpartNetwork(targetNetwork); err == nil {
			sourceNetwork = inferred
		}
	}

	if err := validAddress(req.Address); err != nil {
		log.Printf("Error validating address '%s': %s\n", req.Address, err.Error())
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  "No address or invalid address provided",
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(targetNetwork); err != nil {
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  "Target network not provided or not supported",
		}, http.StatusBadRequest)
		return
	}
	if err := validNetwork(sourceNetwork); err != nil {
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  "Source network not provided or not supported",
		}, http.StatusBadRequest)
		return
	}

	if !tryAcquireBusy() {
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "busy",
		}, http.StatusOK)
		return
	}
	defer releaseBusy()

	res, err := submitter.WriteConfirmation(r.Context(), req.Address, sourceNetwork, targetNetwork)
	if err != nil {
		log.Printf("Error writing confirmation for %s on %s: %s", req.Address, targetNetwork, err.Error())
		responseJSON(w, &types.WriteTransactionResponse{
			Response: "error",
			Message:  err.Error(),
		}, http.StatusOK)
		return
	}

	err = store.RecordRelayWrite(&types.RelayWriteRecord{
		Address:       req.Address,
		SourceNetwork: sourceNetwork,
		TargetNetwork: targetNetwork,
		TxHash:        res.TxHash,
		GasCost:       res.GasCost.String(),
	})
	if err != nil {
		// stats only, the confirmation itself succeeded
		log.Printf("Error recording relay write: %s", err.Error())
	}

	responseJSON(w, &types.WriteTransactionResponse{
		Response: "ok",
		Gas:      res.GasCost.String(),
	}, http.StatusOK)
}
