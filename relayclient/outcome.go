package relayclient

import "math/big"

// RelayOutcome is the result of one write-request to one relay server.
// A closed sum so the retry-vs-abort decision below is checked per variant
// instead of mixing flags and errors.
type RelayOutcome interface {
	relayOutcome()
}

// The server performed its confirmation write; Gas is the cost in WEI the
// client owes the relay for it. Carried as a big amount end to end, gas
// costs in WEI do not fit machine words on expensive chains.
type Ok struct {
	Gas *big.Int
}

// Another request is being serviced; wait and retry the SAME server.
type Busy struct{}

// The server answered with an error; aborts the whole sequence.
type Err struct {
	Message string
}

// The server could not be reached at all. Treated like Busy (retry, same
// server), but a distinct variant so the bounded-retry policy is explicit
// rather than an accident of error mixing.
type Unreachable struct {
	Cause error
}

func (Ok) relayOutcome()          {}
func (Busy) relayOutcome()        {}
func (Err) relayOutcome()         {}
func (Unreachable) relayOutcome() {}
