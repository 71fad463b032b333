package handlers

import (
	"context"

	"bridgerelay/bridge"
	"bridgerelay/types"
)

// Releaser is the slice of the submitter the handlers drive.
type Releaser interface {
	ReleaseTokens(ctx context.Context, address, sourceNetwork, targetNetwork string) (*bridge.ReleaseResult, error)
	WriteConfirmation(ctx context.Context, address, sourceNetwork, targetNetwork string) (*bridge.WriteResult, error)
}

// RelayStore is what the handlers need from persistence: the write-once
// encrypted key blob and the relay write history.
type RelayStore interface {
	SetSecretMessage(message string) error
	RecordRelayWrite(rec *types.RelayWriteRecord) error
	ListRelayWrites() ([]*types.RelayWriteRecord, error)
}

var (
	submitter Releaser
	chains    bridge.Resolver
	fees      bridge.FeeStore
	store     RelayStore

	// called after the first successful secret write so the server can
	// decrypt and install the key without a restart
	onSecretWritten func(blob string) error
)

func Init(sub Releaser, resolver bridge.Resolver, feeStore bridge.FeeStore, relayStore RelayStore, secretHook func(blob string) error) {
	submitter = sub
	chains = resolver
	fees = feeStore
	store = relayStore
	onSecretWritten = secretHook
}
