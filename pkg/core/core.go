// Package core implements a cycle-accurate behavioral model of a small
// out-of-order superscalar core executing a 32-bit RISC integer subset.
//
// The model is intended as a golden reference for co-verifying a hardware
// design: given the same instruction-memory image, the model and the
// hardware must agree on final architectural state and commit counts.
//
// Pipeline
//
// The pipeline is fetch, decode, rename, dispatch, issue/execute,
// writeback, commit. Decode, rename and dispatch complete in a single
// stage; up to one instruction enters the backend per cycle. There are
// three functional units (ALU, BRU, LSU), each fed by an 8-entry
// reservation station, a 128-entry physical register file with a ready
// vector, a 16-entry reorder buffer, and a checkpoint per in-flight
// branch for single-cycle mispredict recovery.
//
// Clocking model
//
// Cycles advance in lockstep through Tick. Within a tick the stages
// evaluate in a fixed order so that same-cycle interactions are well
// defined:
//
//  1. commit the reorder buffer head;
//  2. each functional unit executes one ready instruction;
//  3. writeback effects apply (register file write, done marking,
//     reservation-station wakeup);
//  4. recovery applies if a writeback raised a mispredict;
//  5. the previous cycle's fetch output is decoded, renamed and
//     dispatched;
//  6. fetch and the instruction memory advance.
//
// A value written back at cycle T can therefore wake a dependent in a
// reservation station at T, and the dependent issues at T+1 at the
// earliest; a mispredict detected at T clobbers any dispatch attempted
// at T.
//
// Branch prediction
//
// The frontend predicts not-taken for branches and sequential for
// jumps, i.e. always pc+4. Every taken branch and every non-sequential
// jump is a mispredict and triggers checkpoint recovery.
package core

// Geometry of the core. These match the hardware parameters.
const (
	// NumArchRegs is the number of architectural registers.
	NumArchRegs = 32

	// NumPhysRegs is the number of physical registers. Physical
	// register 0 is hard-wired to zero.
	NumPhysRegs = 128

	// ROBDepth is the number of reorder buffer entries.
	ROBDepth = 16

	// RSDepth is the number of slots per reservation station.
	RSDepth = 8
)

// Core is one instance of the simulated processor. It is not goroutine
// safe; a single goroutine should drive it.
type Core struct {
	// Trace enables per-cycle event logging through the log package.
	Trace bool

	imem *IMem
	dmem *DMem

	fetch    Fetch
	rat      RAT
	freelist FreeList
	tagalloc TagAllocator
	prf      PRF
	rob      ROB
	rsALU    RS
	rsBRU    RS
	rsLSU    RS
	ckpt     [ROBDepth]ckptSlot

	// dispatchSeq orders reservation-station entries by insertion so
	// that issue selection is oldest-first and deterministic.
	dispatchSeq uint64

	// consumed records whether this cycle's dispatch accepted the
	// fetch output; it is fetch's ready input at the end of the tick.
	consumed bool

	cycle   uint64
	commits uint64
}

// New creates a core fetching from the given instruction memory, with
// zeroed data memory and reset pipeline state.
func New(imem *IMem) *Core {
	c := &Core{imem: imem, dmem: NewDMem()}
	c.Reset()
	return c
}

// Reset returns every pipeline structure to its power-on state. The
// instruction and data memory contents are preserved.
func (c *Core) Reset() {
	c.fetch.Reset()
	c.rat.Reset()
	c.freelist.Reset()
	c.tagalloc.Reset()
	c.prf.Reset()
	c.rob.Reset()
	c.rsALU.Reset()
	c.rsBRU.Reset()
	c.rsLSU.Reset()
	for i := range c.ckpt {
		c.ckpt[i] = ckptSlot{}
	}
	c.dispatchSeq = 0
	c.consumed = false
	c.cycle = 0
	c.commits = 0
}

// Cycle returns the number of ticks executed since reset.
func (c *Core) Cycle() uint64 { return c.cycle }

// Commits returns the number of reorder buffer commits since reset.
func (c *Core) Commits() uint64 { return c.commits }

// DMem returns the core's data memory.
func (c *Core) DMem() *DMem { return c.dmem }

// ArchReg returns the architectural value of register a, i.e. the
// physical register the map table currently points at.
func (c *Core) ArchReg(a uint8) uint32 {
	return c.prf.Read(c.rat.LookupSrc(a))
}

// Run advances the core by maxCycles ticks.
func (c *Core) Run(maxCycles uint64) {
	for i := uint64(0); i < maxCycles; i++ {
		c.Tick()
	}
}

// Tick advances simulated time by one clock.
func (c *Core) Tick() {
	c.stepCommit()
	wbs, mispredict, recoverTag, flushPC := c.stepExecute()
	c.stepWriteback(&wbs)
	if mispredict {
		c.stepRecover(recoverTag)
	}
	c.stepDispatch(mispredict)
	c.stepFetch(mispredict, flushPC)
	c.cycle++
}

// Report returns the end-of-run architectural summary.
func (c *Core) Report() Report {
	return Report{
		Cycle:   c.cycle,
		Commits: c.commits,
		A0:      c.ArchReg(10),
		A1:      c.ArchReg(11),
	}
}
