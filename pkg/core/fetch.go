package core

type fetchState uint8

const (
	fetchIdle = fetchState(iota)
	fetchReq
	fetchHave
)

// Fetch is the frontend state machine. From IDLE it moves to REQ and
// asserts the instruction-memory enable with the current pc; once the
// memory responds it latches the word and holds it in HAVE until the
// backend consumes it, then advances the pc by 4 and requests again.
// A flush from recovery forces the pc and returns to IDLE.
type Fetch struct {
	state fetchState
	pc    uint32
	instr uint32
}

// Reset returns fetch to IDLE at pc 0.
func (f *Fetch) Reset() {
	f.state = fetchIdle
	f.pc = 0
	f.instr = instrNOP
}

// Tick advances the state machine by one clock. readyIn tells fetch
// that the backend consumed this cycle's output; rvalid/rdata are the
// instruction memory's registered response.
func (f *Fetch) Tick(flush bool, flushPC uint32, readyIn, rvalid bool, rdata uint32) {
	if flush {
		f.state = fetchIdle
		f.pc = flushPC
		return
	}
	switch f.state {
	case fetchIdle:
		f.state = fetchReq
	case fetchReq:
		if rvalid {
			f.instr = rdata
			f.state = fetchHave
		}
	case fetchHave:
		if readyIn {
			f.pc += 4
			f.state = fetchReq
		}
	}
}

// ValidOut reports whether fetch holds an instruction for the backend.
func (f *Fetch) ValidOut() bool { return f.state == fetchHave }

// IMemEn reports whether fetch is requesting an instruction word.
func (f *Fetch) IMemEn() bool { return f.state == fetchReq }

// PC returns the pc of the held (or requested) instruction.
func (f *Fetch) PC() uint32 { return f.pc }

// Instr returns the held instruction word.
func (f *Fetch) Instr() uint32 { return f.instr }
