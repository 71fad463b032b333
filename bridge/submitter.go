package bridge

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"bridgerelay/config"
	"bridgerelay/types"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

type FeeStore interface {
	GetFeeQuote(network string) (*big.Int, error)
	SetFeeQuote(network string, fee *big.Int) error
}

// Submitter signs and submits the relay's own transactions against the
// bridge contracts. The decrypted signing key lives here and nowhere else.
// Not re-entrant: the HTTP busy gate serializes calls into it.
type Submitter struct {
	key    *ecdsa.PrivateKey
	chains Resolver
	fees   FeeStore
}

func NewSubmitter(key *ecdsa.PrivateKey, chains Resolver, fees FeeStore) *Submitter {
	return &Submitter{
		key:    key,
		chains: chains,
		fees:   fees,
	}
}

// SetKey installs the signing key after startup, for the case where the
// encrypted blob arrives via the write-once endpoint while the server is
// already running.
func (s *Submitter) SetKey(key *ecdsa.PrivateKey) {
	s.key = key
}

func (s *Submitter) HasKey() bool {
	return s.key != nil
}

type ReleaseResult struct {
	TxHash  string
	GasUsed uint64
	GasCost *big.Int // gasUsed * gasPrice, in WEI
	Pending *big.Int // amount released; zero means there was nothing to do
}

type WriteResult struct {
	TxHash  string
	GasUsed uint64
	GasCost *big.Int
}

// ReleaseTokens executes the release of everything pending for address on
// targetNetwork. The pending amount is recomputed immediately before
// submission: a caller-supplied amount may be stale or adversarial.
// A zero pending amount is a success with nothing to do, not an error.
func (s *Submitter) ReleaseTokens(ctx context.Context, address, sourceNetwork, targetNetwork string) (*ReleaseResult, error) {
	if s.key == nil {
		return nil, errors.New("no signing key loaded, deliver the secret message first")
	}

	pending, err := GetPendingAmount(ctx, s.chains, address, sourceNetwork, targetNetwork)
	if err != nil {
		return nil, err
	}
	if pending.Sign() == 0 {
		return &ReleaseResult{Pending: pending}, nil
	}

	sourceID, err := config.GetNetworkID(sourceNetwork)
	if err != nil {
		return nil, err
	}
	target, err := s.chains(targetNetwork)
	if err != nil {
		return nil, err
	}

	fee, err := s.fees.GetFeeQuote(targetNetwork)
	if err != nil {
		return nil, fmt.Errorf("cannot read fee quote for %s: %s", targetNetwork, err.Error())
	}

	owner := common.HexToAddress(address)
	counterpartID := big.NewInt(int64(sourceID))
	from := crypto.PubkeyToAddress(s.key.PublicKey)

	gasLimit, err := target.EstimateReceiveGas(ctx, from, owner, counterpartID, pending, fee)
	if err != nil {
		// estimation against some nodes is unreliable for calls with side
		// effects, fall back instead of aborting
		log.Printf("Gas estimation failed on %s, using fallback limit %d: %s", targetNetwork, config.Config.Submit.GasLimitFallback, err.Error())
		gasLimit = config.Config.Submit.GasLimitFallback
	}

	auth, gasPrice, err := s.transactOpts(ctx, target, targetNetwork, from, gasLimit)
	if err != nil {
		return nil, err
	}

	tx, err := target.SubmitReceive(auth, owner, counterpartID, pending, fee)
	if err != nil {
		return nil, &types.ChainWriteError{Network: targetNetwork, Op: "receiveTokens", Err: err}
	}
	log.Printf("Submitted receiveTokens for %s on %s: amount %s, tx %s", address, targetNetwork, pending.String(), tx.Hash().Hex())

	receipt, err := s.waitMined(ctx, target, targetNetwork, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, &types.ChainWriteError{
			Network: targetNetwork,
			Op:      "receiveTokens",
			Err:     fmt.Errorf("transaction %s reverted", tx.Hash().Hex()),
		}
	}

	gasCost := big.NewInt(0).Mul(big.NewInt(int64(receipt.GasUsed)), gasPrice)

	// write-after-send: the actual cost becomes the quote for the next payer
	if err := s.fees.SetFeeQuote(targetNetwork, gasCost); err != nil {
		// the release already happened, a stale quote is acceptable
		log.Printf("Error updating fee quote for %s: %s", targetNetwork, err.Error())
	}

	return &ReleaseResult{
		TxHash:  tx.Hash().Hex(),
		GasUsed: receipt.GasUsed,
		GasCost: gasCost,
		Pending: pending,
	}, nil
}

// WriteConfirmation records the relay's sign-off on a user's transfer
// intent in the target chain's bridge contract. It spends gas but does not
// move tokens, which is why a failed multi-server sequence needs no
// rollback of earlier confirmations.
func (s *Submitter) WriteConfirmation(ctx context.Context, address, sourceNetwork, targetNetwork string) (*WriteResult, error) {
	if s.key == nil {
		return nil, errors.New("no signing key loaded, deliver the secret message first")
	}

	sourceID, err := config.GetNetworkID(sourceNetwork)
	if err != nil {
		return nil, err
	}
	target, err := s.chains(targetNetwork)
	if err != nil {
		return nil, err
	}

	owner := common.HexToAddress(address)
	counterpartID := big.NewInt(int64(sourceID))
	from := crypto.PubkeyToAddress(s.key.PublicKey)

	gasLimit, err := target.EstimateWriteGas(ctx, from, owner, counterpartID)
	if err != nil {
		log.Printf("Gas estimation failed on %s, using fallback limit %d: %s", targetNetwork, config.Config.Submit.GasLimitFallback, err.Error())
		gasLimit = config.Config.Submit.GasLimitFallback
	}

	auth, gasPrice, err := s.transactOpts(ctx, target, targetNetwork, from, gasLimit)
	if err != nil {
		return nil, err
	}

	tx, err := target.SubmitWrite(auth, owner, counterpartID)
	if err != nil {
		return nil, &types.ChainWriteError{Network: targetNetwork, Op: "writeTransaction", Err: err}
	}
	log.Printf("Submitted writeTransaction for %s on %s: tx %s", address, targetNetwork, tx.Hash().Hex())

	receipt, err := s.waitMined(ctx, target, targetNetwork, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, &types.ChainWriteError{
			Network: targetNetwork,
			Op:      "writeTransaction",
			Err:     fmt.Errorf("transaction %s reverted", tx.Hash().Hex()),
		}
	}

	return &WriteResult{
		TxHash:  tx.Hash().Hex(),
		GasUsed: receipt.GasUsed,
		GasCost: big.NewInt(0).Mul(big.NewInt(int64(receipt.GasUsed)), gasPrice),
	}, nil
}

func (s *Submitter) transactOpts(ctx context.Context, target Chain, targetNetwork string, from common.Address, gasLimit uint64) (*bind.TransactOpts, *big.Int, error) {
	nonce, err := target.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nil, &types.ChainReadError{Network: targetNetwork, Op: "eth_getTransactionCount", Err: err}
	}

	suggested, err := target.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, &types.ChainReadError{Network: targetNetwork, Op: "eth_gasPrice", Err: err}
	}
	// pay a margin over the suggested price so the transaction is not
	// priced out while waiting for confirmation
	gasPrice := big.NewInt(0).Mul(suggested, big.NewInt(config.Config.Submit.GasPriceMarginPercent))
	gasPrice = gasPrice.Div(gasPrice, big.NewInt(100))

	targetID, err := config.GetNetworkID(targetNetwork)
	if err != nil {
		return nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(s.key, big.NewInt(int64(targetID)))
	if err != nil {
		return nil, nil, &types.ChainWriteError{Network: targetNetwork, Op: "sign", Err: err}
	}
	auth.Nonce = big.NewInt(int64(nonce))
	auth.Value = big.NewInt(0)
	auth.GasLimit = gasLimit
	auth.GasPrice = gasPrice
	auth.Context = ctx

	return auth, gasPrice, nil
}

// waitMined polls for the receipt at a fixed interval. The chain has no
// push notification for this. The wait is bounded: on expiry the caller
// gets TimeoutError instead of hanging, and a later retry recomputes the
// pending amount from chain state, so a transaction that mines after the
// deadline cannot cause a double payout.
func (s *Submitter) waitMined(ctx context.Context, target Chain, targetNetwork string, txHash common.Hash) (*ethtypes.Receipt, error) {
	poll := time.Duration(config.Config.Submit.ReceiptPollSec) * time.Second
	wait := time.Duration(config.Config.Submit.ReceiptWaitSec) * time.Second

	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		receipt, err := target.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		// not found means not mined yet; anything else is a transient node
		// problem and the next tick retries either way

		if time.Now().After(deadline) {
			return nil, &types.TimeoutError{
				Op:   fmt.Sprintf("waiting for receipt of %s on %s", txHash.Hex(), targetNetwork),
				Wait: wait,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
