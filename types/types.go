package types

import (
	"fmt"
	"time"
)

// Relay write record, stored in Redis for operator stats.
// One record per successful on-chain confirmation write.
type RelayWriteRecord struct {
	ID            string
	Address       string
	SourceNetwork string
	TargetNetwork string
	TxHash        string
	GasCost       string // in WEI
	TsCreated     int64
}

// A read against a blockchain node failed or timed out. Never conflated
// with a zero/empty result: callers cannot tell "nothing pending" from
// "node unreachable" on their own.
type ChainReadError struct {
	Network string
	Op      string
	Err     error
}

func (e *ChainReadError) Error() string {
	return fmt.Sprintf("chain read %s on %s: %s", e.Op, e.Network, e.Err.Error())
}

func (e *ChainReadError) Unwrap() error {
	return e.Err
}

// Signing or submitting a transaction failed, or the mined receipt reported
// failure status. The underlying node message is kept verbatim so revert
// reasons reach the user.
type ChainWriteError struct {
	Network string
	Op      string
	Err     error
}

func (e *ChainWriteError) Error() string {
	return fmt.Sprintf("chain write %s on %s: %s", e.Op, e.Network, e.Err.Error())
}

func (e *ChainWriteError) Unwrap() error {
	return e.Err
}

// An operation did not complete within its configured deadline.
type TimeoutError struct {
	Op   string
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no result after %s", e.Op, e.Wait)
}
