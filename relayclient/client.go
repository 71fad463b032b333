// Package relayclient drives one bridge attempt from the client side:
// wait for the source transaction to mine, then collect a confirmation
// from every configured relay server, strictly in order.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"bridgerelay/config"
	"bridgerelay/types"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingSourceConfirmation
	StateAwaitingRelayWrite
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSourceConfirmation:
		return "awaiting source confirmation"
	case StateAwaitingRelayWrite:
		return "awaiting relay write"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// SourceChain is the one read the coordinator needs from the source
// network: receipt lookups for the user's send transaction.
type SourceChain interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

type Coordinator struct {
	Servers []string
	// busy and unreachable both wait this long before retrying the same
	// server; the reference behavior retried forever, here the attempt
	// count is bounded
	RetryDelay  time.Duration
	MaxAttempts int
	// source receipt polling
	PollInterval   time.Duration
	ConfirmTimeout time.Duration

	source SourceChain
	http   *http.Client

	state State
	// accumulated relay gas costs, owed back via the fee payment
	gasPaid *big.Int
}

func New(source SourceChain) *Coordinator {
	return &Coordinator{
		Servers:        config.Config.Relay.Servers,
		RetryDelay:     time.Duration(config.Config.Relay.RetryDelaySec) * time.Second,
		MaxAttempts:    config.Config.Relay.MaxAttempts,
		PollInterval:   time.Duration(config.Config.Submit.ReceiptPollSec) * time.Second,
		ConfirmTimeout: time.Duration(config.Config.Submit.ReceiptWaitSec) * time.Second,
		source:         source,
		http:           &http.Client{Timeout: 30 * time.Second},
		state:          StateIdle,
		gasPaid:        big.NewInt(0),
	}
}

func (c *Coordinator) State() State {
	return c.state
}

// GasPaid is the sum of the gas costs the relay servers reported for their
// confirmation writes during Run.
func (c *Coordinator) GasPaid() *big.Int {
	return big.NewInt(0).Set(c.gasPaid)
}

// CheckAlive polls every configured relay server once. A bridge attempt is
// not allowed to start unless all of them answer.
func (c *Coordinator) CheckAlive(ctx context.Context) error {
	for _, server := range c.Servers {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/Alive", nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("relay server %s is not alive: %s", server, err.Error())
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("relay server %s is not alive: status %d", server, resp.StatusCode)
		}
	}
	return nil
}

// Run waits for sourceTx to mine on the source chain, then requests a
// confirmation write from each relay server in turn. Servers are contacted
// strictly sequentially: server N+1 is never contacted until server N has
// returned ok. An error response fails the attempt; confirmations already
// written stay written, they only sign off on intent and move no tokens.
func (c *Coordinator) Run(ctx context.Context, sourceTx common.Hash, address, sourceNetwork, targetNetwork string) error {
	c.state = StateAwaitingSourceConfirmation
	if err := c.waitSourceMined(ctx, sourceTx); err != nil {
		c.state = StateFailed
		return err
	}

	c.state = StateAwaitingRelayWrite
	for _, server := range c.Servers {
		if err := c.writeWithRetry(ctx, server, address, sourceNetwork, targetNetwork); err != nil {
			c.state = StateFailed
			return err
		}
	}

	c.state = StateDone
	return nil
}

func (c *Coordinator) waitSourceMined(ctx context.Context, txHash common.Hash) error {
	deadline := time.Now().Add(c.ConfirmTimeout)
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.source.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status != ethtypes.ReceiptStatusSuccessful {
				return fmt.Errorf("source transaction %s reverted", txHash.Hex())
			}
			return nil
		}

		if time.Now().After(deadline) {
			return &types.TimeoutError{
				Op:   fmt.Sprintf("waiting for source transaction %s", txHash.Hex()),
				Wait: c.ConfirmTimeout,
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// writeWithRetry keeps asking the SAME server until it answers ok or
// error. Busy and unreachable are retry signals, never escalated and never
// a reason to skip to the next server.
func (c *Coordinator) writeWithRetry(ctx context.Context, server, address, sourceNetwork, targetNetwork string) error {
	attempt := func() error {
		outcome := c.postWrite(ctx, server, address, sourceNetwork, targetNetwork)
		switch o := outcome.(type) {
		case Ok:
			c.gasPaid = c.gasPaid.Add(c.gasPaid, o.Gas)
			return nil
		case Busy:
			log.Printf("Relay server %s is busy, retrying", server)
			return errors.New("busy")
		case Unreachable:
			log.Printf("Relay server %s unreachable, retrying: %s", server, o.Cause.Error())
			return fmt.Errorf("unreachable: %s", o.Cause.Error())
		case Err:
			return backoff.Permanent(fmt.Errorf("relay server %s: %s", server, o.Message))
		}
		return backoff.Permanent(errors.New("unknown relay outcome"))
	}

	// at least one attempt regardless of how the Coordinator was built;
	// MaxAttempts-1 must never wrap into an unbounded retry count
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.RetryDelay), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		return fmt.Errorf("relay write to %s failed: %s", server, err.Error())
	}
	return nil
}

func (c *Coordinator) postWrite(ctx context.Context, server, address, sourceNetwork, targetNetwork string) RelayOutcome {
	var resp types.WriteTransactionResponse
	err := c.post(ctx, server+"/WriteTransaction", &types.WriteTransactionRequest{
		Address:       address,
		SourceNetwork: sourceNetwork,
		TargetNetwork: targetNetwork,
	}, &resp)
	if err != nil {
		return Unreachable{Cause: err}
	}

	switch resp.Response {
	case "ok":
		gas, ok := big.NewInt(0).SetString(resp.Gas, 10)
		if !ok {
			// a server omitting or mangling the field only affects the
			// gas-paid ledger, the confirmation itself happened
			gas = big.NewInt(0)
		}
		return Ok{Gas: gas}
	case "busy":
		return Busy{}
	default:
		return Err{Message: resp.Message}
	}
}

// GetFee asks a relay server for the currently quoted release fee on a
// network, in WEI.
func (c *Coordinator) GetFee(ctx context.Context, server, network string) (*big.Int, error) {
	var resp types.GetFeeResponse
	err := c.post(ctx, server+"/GetFee", &types.GetFeeRequest{Network: network}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, errors.New(resp.Body.Err)
	}

	fee, ok := big.NewInt(0).SetString(resp.Body.Fee, 10)
	if !ok {
		return nil, fmt.Errorf("malformed fee '%s' from %s", resp.Body.Fee, server)
	}
	return fee, nil
}

func (c *Coordinator) GetTokensPending(ctx context.Context, server, address, sourceNetwork, targetNetwork string) (*big.Int, error) {
	var resp types.GetTokensPendingResponse
	err := c.post(ctx, server+"/GetTokensPending", &types.GetTokensPendingRequest{
		Address:       address,
		SourceNetwork: sourceNetwork,
		TargetNetwork: targetNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, errors.New(resp.Body.Err)
	}

	pending, ok := big.NewInt(0).SetString(resp.Body.TokensPending, 10)
	if !ok {
		return nil, fmt.Errorf("malformed pending amount '%s' from %s", resp.Body.TokensPending, server)
	}
	return pending, nil
}

// ReceiveTokens asks a relay server to release everything pending; called
// after the quoted fee has been paid. Returns the release transaction
// hash, or "" when nothing was pending.
func (c *Coordinator) ReceiveTokens(ctx context.Context, server, address, sourceNetwork, targetNetwork string) (string, error) {
	var resp types.ReceiveTokensResponse
	err := c.post(ctx, server+"/ReceiveTokens", &types.ReceiveTokensRequest{
		Address:       address,
		SourceNetwork: sourceNetwork,
		TargetNetwork: targetNetwork,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Status != "ok" {
		return "", errors.New(resp.Body.Message)
	}
	return resp.Body.Tx, nil
}

func (c *Coordinator) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
