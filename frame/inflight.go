package frame

// Work is GPU work which was submitted and may still be executing.
type Work interface {

	// Finished reports whether the GPU has completed the work. It does not
	// block.
	Finished() bool

	// Release waits for the work to complete and frees the host resources
	// held for it. Calling it more than once is allowed.
	Release()
}

// InFlight tracks the most recent submission. It is either Idle or Pending.
type InFlight interface {
	inFlight()
}

// Idle means there is no submitted work to wait for.
type Idle struct{}

// Pending holds work which is not known to be finished.
type Pending struct {
	Work Work
}

func (Idle) inFlight()    {}
func (Pending) inFlight() {}

// cleanup releases the tracked work if the GPU is done with it.
func cleanup(f InFlight) InFlight {
	switch f := f.(type) {
	case Idle:
		return f
	case Pending:
		if !f.Work.Finished() {
			return f
		}
		f.Work.Release()
		return Idle{}
	default:
		panic("frame: unknown in-flight state")
	}
}

// reset waits for any tracked work and returns the idle state.
func reset(f InFlight) InFlight {
	switch f := f.(type) {
	case Idle:
	case Pending:
		f.Work.Release()
	default:
		panic("frame: unknown in-flight state")
	}
	return Idle{}
}

// previous returns the work a new submission has to be chained after, or nil.
func previous(f InFlight) Work {
	switch f := f.(type) {
	case Idle:
		return nil
	case Pending:
		return f.Work
	default:
		panic("frame: unknown in-flight state")
	}
}
