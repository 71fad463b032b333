// Package bridge holds the relay core: the pending-amount reconciler and
// the transaction submitter. Chain access goes through the Chain interface
// so the core stays independent of the RPC plumbing.
package bridge

import (
	"context"
	"math/big"

	"bridgerelay/config"
	"bridgerelay/types"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type Reader interface {
	TokensSent(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error)
	TokensReceived(ctx context.Context, owner common.Address, counterpartChainID *big.Int) (*big.Int, error)
}

type Chain interface {
	Reader
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateReceiveGas(ctx context.Context, from, owner common.Address, counterpartChainID, amount, fee *big.Int) (uint64, error)
	EstimateWriteGas(ctx context.Context, from, owner common.Address, counterpartChainID *big.Int) (uint64, error)
	SubmitReceive(opts *bind.TransactOpts, owner common.Address, counterpartChainID, amount, fee *big.Int) (*ethtypes.Transaction, error)
	SubmitWrite(opts *bind.TransactOpts, owner common.Address, counterpartChainID *big.Int) (*ethtypes.Transaction, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Resolver returns the accessor for a network name.
type Resolver func(network string) (Chain, error)

// GetPendingAmount answers how many tokens are owed to address on
// targetNetwork, given they were sent from sourceNetwork. There is no
// stored record of this: it is always recomputed from the two live
// on-chain counters.
//
// The source contract is asked how much was sent TOWARD the target chain
// and the target contract how much was received FROM the source chain, so
// the two reads carry each other's chain IDs.
func GetPendingAmount(ctx context.Context, chains Resolver, address, sourceNetwork, targetNetwork string) (*big.Int, error) {
	sourceID, err := config.GetNetworkID(sourceNetwork)
	if err != nil {
		return nil, err
	}
	targetID, err := config.GetNetworkID(targetNetwork)
	if err != nil {
		return nil, err
	}

	source, err := chains(sourceNetwork)
	if err != nil {
		return nil, err
	}
	target, err := chains(targetNetwork)
	if err != nil {
		return nil, err
	}

	owner := common.HexToAddress(address)

	sent, err := source.TokensSent(ctx, owner, big.NewInt(int64(targetID)))
	if err != nil {
		return nil, &types.ChainReadError{Network: sourceNetwork, Op: "tokensSent", Err: err}
	}

	received, err := target.TokensReceived(ctx, owner, big.NewInt(int64(sourceID)))
	if err != nil {
		return nil, &types.ChainReadError{Network: targetNetwork, Op: "tokensReceived", Err: err}
	}

	pending := big.NewInt(0).Sub(sent, received)
	// received > sent means a race or a reconciliation bug; never trust a
	// negative amount
	if pending.Sign() < 0 {
		return big.NewInt(0), nil
	}
	return pending, nil
}
