package handlers

// Single-slot gate serializing everything that spends the relay's gas.
// The submitter reads a balance and then spends it without any lock at the
// contract level, so at most one chain-write workflow may run per server.
// A channel instead of a bare flag: release happens in a defer on every
// exit path, so an error can never leave the gate stuck busy.
var busySlot = make(chan struct{}, 1)

// tryAcquireBusy reports whether the caller got the slot. A request that
// does not get it is answered busy immediately, never queued: the client
// retry loop re-polls.
func tryAcquireBusy() bool {
	select {
	case busySlot <- struct{}{}:
		return true
	default:
		return false
	}
}

func releaseBusy() {
	<-busySlot
}
