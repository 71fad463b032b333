package types

// Request/response schemas for the relay HTTP API, shared between the server
// handlers and the relay client so both sides decode the same shapes.

type WriteTransactionRequest struct {
	Address       string `json:"address"`
	SourceNetwork string `json:"sourceNetwork,omitempty"`
	TargetNetwork string `json:"targetNetwork,omitempty"`
	// prev. bridge implementation compatibility
	TypeRecieve string `json:"typeRecieve,omitempty"`
	TypeSwap    string `json:"typeSwap,omitempty"`
}

type WriteTransactionResponse struct {
	Response string `json:"response"` // "ok", "busy" or "error"
	Gas      string `json:"gas,omitempty"` // in WEI, decimal string
	Message  string `json:"message,omitempty"`
}

type GetFeeRequest struct {
	Network string `json:"network"`
}

type GetFeeResponse struct {
	Status string  `json:"status"`
	Body   FeeBody `json:"body"`
}

type FeeBody struct {
	Fee string `json:"fee,omitempty"` // in WEI
	Err string `json:"err,omitempty"`
}

type GetTokensPendingRequest struct {
	Address       string `json:"address"`
	SourceNetwork string `json:"sourceNetwork"`
	TargetNetwork string `json:"targetNetwork"`
}

type GetTokensPendingResponse struct {
	Status string      `json:"status"`
	Body   PendingBody `json:"body"`
}

type PendingBody struct {
	TokensPending string `json:"tokensPending,omitempty"`
	Err           string `json:"err,omitempty"`
}

type ReceiveTokensRequest struct {
	Address       string `json:"address"`
	SourceNetwork string `json:"sourceNetwork"`
	TargetNetwork string `json:"targetNetwork"`
}

type ReceiveTokensResponse struct {
	Status string      `json:"status"`
	Body   ReceiveBody `json:"body"`
}

type ReceiveBody struct {
	Tx      string `json:"tx,omitempty"`
	Gas     string `json:"gas,omitempty"` // in WEI, decimal string
	Message string `json:"message,omitempty"`
}

type WriteSecretMessageRequest struct {
	Message string `json:"message"`
}

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
