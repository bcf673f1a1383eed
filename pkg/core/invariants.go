package core

import (
	"errors"
	"fmt"
)

// ErrInvariant indicates a structural invariant does not hold. Any
// occurrence is a bug in the model.
var ErrInvariant = errors.New("core: invariant violated")

// CheckInvariants verifies the structural invariants that must hold at
// the end of every tick and returns a description of the first
// violation found. The property tests call it after every cycle.
func (c *Core) CheckInvariants() error {
	// Register 0 is pinned: map table, value and ready bit.
	if c.rat.LookupSrc(0) != 0 {
		return fmt.Errorf("%w: rat[0] = %d", ErrInvariant, c.rat.LookupSrc(0))
	}
	if c.prf.Read(0) != 0 {
		return fmt.Errorf("%w: prf[0] = %#x", ErrInvariant, c.prf.Read(0))
	}
	if !c.prf.Ready(0) {
		return fmt.Errorf("%w: prf ready[0] clear", ErrInvariant)
	}

	// Physical register accounting: no map table target and no
	// in-flight destination may be free, and every register must be
	// reachable through the map table, the free list, or an in-flight
	// entry's prd/old_prd.
	var reachable RegSet
	for a := 0; a < NumArchRegs; a++ {
		p := c.rat.LookupSrc(uint8(a))
		if c.freelist.Free(p) {
			return fmt.Errorf("%w: rat[%d] -> p%d is free", ErrInvariant, a, p)
		}
		reachable.Set(p)
	}
	for t := uint8(0); t < ROBDepth; t++ {
		e := c.rob.Entry(t)
		if !e.Valid || !e.RDUsed {
			continue
		}
		if c.freelist.Free(e.PRD) {
			return fmt.Errorf("%w: in-flight p%d (tag %d) is free", ErrInvariant, e.PRD, t)
		}
		reachable.Set(e.PRD)
		reachable.Set(e.OldPRD)
	}
	reachable = reachable.Union(c.freelist.Snapshot())
	if got := reachable.Count(); got != NumPhysRegs {
		for p := 0; p < NumPhysRegs; p++ {
			if !reachable.Has(uint8(p)) {
				return fmt.Errorf("%w: p%d leaked (unreachable)", ErrInvariant, p)
			}
		}
	}

	// Reorder buffer shape: bounded count, the occupied region is
	// exactly head..head+count, and nothing outside it is valid.
	if c.rob.Count() < 0 || c.rob.Count() > ROBDepth {
		return fmt.Errorf("%w: rob count %d", ErrInvariant, c.rob.Count())
	}
	for t := uint8(0); t < ROBDepth; t++ {
		inWindow := c.rob.Age(t) < c.rob.Count()
		if c.rob.Live(t) != inWindow {
			return fmt.Errorf("%w: rob slot %d valid=%v outside window", ErrInvariant, t, c.rob.Live(t))
		}
	}

	// Reservation station operand readiness never runs ahead of the
	// register file.
	for _, q := range []*RS{&c.rsALU, &c.rsBRU, &c.rsLSU} {
		for i := range q.slots {
			s := &q.slots[i]
			if !s.used {
				continue
			}
			if s.pkt.IssueReady() != (s.pkt.PRS1Ready && s.pkt.PRS2Ready) {
				return fmt.Errorf("%w: rs issue_ready inconsistent", ErrInvariant)
			}
			if s.pkt.PRS1Ready && !c.prf.Ready(s.pkt.PRS1) {
				return fmt.Errorf("%w: rs src p%d ready but prf pending", ErrInvariant, s.pkt.PRS1)
			}
			if s.pkt.PRS2Ready && !c.prf.Ready(s.pkt.PRS2) {
				return fmt.Errorf("%w: rs src p%d ready but prf pending", ErrInvariant, s.pkt.PRS2)
			}
		}
	}

	// A pending register has exactly one in-flight producer that has
	// not yet written back.
	for p := 1; p < NumPhysRegs; p++ {
		if c.prf.Ready(uint8(p)) {
			continue
		}
		producers := 0
		for t := uint8(0); t < ROBDepth; t++ {
			e := c.rob.Entry(t)
			if e.Valid && e.RDUsed && e.PRD == uint8(p) && !e.Done {
				producers++
			}
		}
		if producers != 1 {
			return fmt.Errorf("%w: pending p%d has %d producers", ErrInvariant, p, producers)
		}
	}

	// Checkpoints exist exactly for non-retired branches and jumps.
	for t := uint8(0); t < ROBDepth; t++ {
		e := c.rob.Entry(t)
		want := e.Valid && e.IsBranchOrJump
		if c.ckpt[t].valid != want {
			return fmt.Errorf("%w: checkpoint %d valid=%v want %v", ErrInvariant, t, c.ckpt[t].valid, want)
		}
	}
	return nil
}
