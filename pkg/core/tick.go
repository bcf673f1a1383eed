package core

import "log"

// ckptSlot snapshots the rename state at a speculative branch or jump,
// keyed by the branch's reorder buffer tag. It is live from the cycle
// the branch dispatches until the branch commits; a mispredict restores
// from it but leaves it in place until that commit. Checkpoints of
// younger branches dropped by recovery are discarded with them.
type ckptSlot struct {
	valid        bool
	rat          [NumArchRegs]uint8
	free         RegSet
	ready        RegSet
	robTailAfter uint8
	nextTag      uint8
}

// stepCommit retires the reorder buffer head if it has written back:
// the displaced physical register returns to the free list and the
// branch checkpoint, if any, is discarded.
func (c *Core) stepCommit() {
	if c.rob.Empty() {
		return
	}
	head := c.rob.Entry(c.rob.Head())
	if !head.Done {
		return
	}
	tag := c.rob.Head()
	e := c.rob.CommitHead()
	if e.RDUsed && e.OldPRD != 0 {
		c.freelist.Release(e.OldPRD)
	}
	if e.HasCkpt {
		c.ckpt[tag] = ckptSlot{}
	}
	c.commits++
	if c.Trace {
		log.Printf("sim: cycle %d commit pc=%08x %s", c.cycle, e.PC, Disassemble(e.Instr))
	}
}

// stepExecute lets each functional unit issue and execute one
// instruction. The ALU and BRU pick the oldest ready entry of their
// station; the LSU additionally requires its oldest entry to be at the
// reorder buffer head, so memory operations run in program order and
// never speculatively.
func (c *Core) stepExecute() (wbs [3]WBPkt, mispredict bool, recoverTag uint8, flushPC uint32) {
	if i, ok := c.rsALU.SelectReady(); ok {
		e := c.rsALU.Take(i)
		wbs[0] = execALU(&e, &c.prf)
	}
	if i, ok := c.rsBRU.SelectReady(); ok {
		e := c.rsBRU.Take(i)
		wb, mis, next := execBRU(&e, &c.prf)
		wbs[1] = wb
		if mis {
			mispredict = true
			recoverTag = e.ROBTag
			flushPC = next
			if c.Trace {
				log.Printf("sim: cycle %d mispredict pc=%08x -> %08x", c.cycle, e.PC, next)
			}
		}
	}
	if i, ok := c.rsLSU.Oldest(); ok {
		e := c.rsLSU.Peek(i)
		if e.IssueReady() && !c.rob.Empty() && e.ROBTag == c.rob.Head() {
			pkt := c.rsLSU.Take(i)
			wbs[2] = execLSU(&pkt, &c.prf, c.dmem)
		}
	}
	return wbs, mispredict, recoverTag, flushPC
}

// stepWriteback applies the writeback bus beats in fixed ALU, BRU, LSU
// priority: register file write, reorder buffer done marking, and
// reservation station wakeup. Two beats never target the same
// destination register because a physical register has exactly one
// producer.
func (c *Core) stepWriteback(wbs *[3]WBPkt) {
	for i := range wbs {
		wb := &wbs[i]
		if !wb.Valid {
			continue
		}
		if wb.RDUsed && wb.PRD != 0 {
			c.prf.Write(wb.PRD, wb.Data)
			c.rsALU.Wakeup(wb.PRD)
			c.rsBRU.Wakeup(wb.PRD)
			c.rsLSU.Wakeup(wb.PRD)
		}
		c.rob.MarkDone(wb.ROBTag)
	}
}

// stepRecover rewinds to the checkpoint of the mispredicting branch:
// map table, free list and ready vector come back from the snapshot,
// the reorder buffer truncates to just after the branch, reservation
// station entries younger than the branch die, and the tag allocator
// rewinds its pointer.
//
// Two snapshot adjustments keep the restored state exact. The free
// list restores to the union of the snapshot and the current free set,
// because instructions older than the branch may have committed since
// the checkpoint was taken and their released registers must stay
// free. The ready vector restore then re-marks the destination of
// every surviving entry that already wrote back, because those
// producers will never broadcast again.
func (c *Core) stepRecover(recoverTag uint8) {
	ck := &c.ckpt[recoverTag]
	c.rat.Restore(ck.rat)
	c.freelist.Restore(ck.free.Union(c.freelist.Snapshot()))
	c.prf.RestoreReady(ck.ready)
	survivors := c.rob.Age(recoverTag) + 1
	for k := 0; k < survivors; k++ {
		t := (c.rob.Head() + uint8(k)) % ROBDepth
		e := c.rob.Entry(t)
		if e.Valid && e.Done && e.RDUsed && e.PRD != 0 {
			c.prf.MarkReady(e.PRD)
		}
	}
	branchAge := c.rob.Age(recoverTag)
	for _, t := range c.rob.Truncate(recoverTag, ck.robTailAfter) {
		c.ckpt[t] = ckptSlot{}
	}
	younger := func(tag uint8) bool { return c.rob.Age(tag) > branchAge }
	c.rsALU.Kill(younger)
	c.rsBRU.Kill(younger)
	c.rsLSU.Kill(younger)
	c.tagalloc.Flush()
	c.tagalloc.SetNextTag(ck.nextTag)
}

// stepDispatch decodes, renames and dispatches the previous cycle's
// fetch output. The stage stalls when the target reservation station
// is full, the reorder buffer has no slot, or an allocation is needed
// and the free list is empty. A mispredict in the same cycle clobbers
// the dispatch.
func (c *Core) stepDispatch(recovered bool) {
	if recovered || !c.fetch.ValidOut() {
		c.consumed = false
		return
	}
	pkt := Decode(true, c.fetch.PC(), c.fetch.Instr())
	if !pkt.Valid {
		// Unrecognized instruction: fetch advances past it and it
		// occupies no backend resources.
		c.consumed = true
		return
	}
	var rsq *RS
	switch pkt.FU {
	case FUALU:
		rsq = &c.rsALU
	case FUBRU:
		rsq = &c.rsBRU
	default:
		rsq = &c.rsLSU
	}
	needAlloc := pkt.RDUsed
	if !rsq.HasFree() || (needAlloc && !c.freelist.HasFree()) {
		c.consumed = false
		return
	}
	tag, ok := c.tagalloc.Alloc(&c.rob)
	if !ok {
		c.consumed = false
		return
	}

	rn := RenamePkt{DecodePkt: pkt, ROBTag: tag}
	if pkt.RS1Used {
		rn.PRS1 = c.rat.LookupSrc(pkt.RS1)
		rn.PRS1Ready = c.prf.Ready(rn.PRS1)
	} else {
		rn.PRS1Ready = true
	}
	if pkt.RS2Used {
		rn.PRS2 = c.rat.LookupSrc(pkt.RS2)
		rn.PRS2Ready = c.prf.Ready(rn.PRS2)
	} else {
		rn.PRS2Ready = true
	}
	if needAlloc {
		rn.OldPRD = c.rat.LookupOld(pkt.RD)
		rn.PRD, _ = c.freelist.Alloc()
		c.rat.Update(pkt.RD, rn.PRD)
		c.prf.ClearReady(rn.PRD)
	}

	rsq.Insert(rn, c.dispatchSeq)
	c.dispatchSeq++
	c.rob.Dispatch(tag, ROBEntry{
		PC:             pkt.PC,
		Instr:          pkt.Instr,
		RD:             pkt.RD,
		RDUsed:         pkt.RDUsed,
		PRD:            rn.PRD,
		OldPRD:         rn.OldPRD,
		IsBranchOrJump: pkt.IsBranch || pkt.IsJump,
		HasCkpt:        pkt.IsBranch || pkt.IsJump,
	})
	c.tagalloc.Fire(tag)

	if pkt.IsBranch || pkt.IsJump {
		c.ckpt[tag] = ckptSlot{
			valid:        true,
			rat:          c.rat.Snapshot(),
			free:         c.freelist.Snapshot(),
			ready:        c.prf.SnapshotReady(),
			robTailAfter: c.rob.Tail(),
			nextTag:      c.tagalloc.NextTag(),
		}
	}
	if c.Trace {
		log.Printf("sim: cycle %d dispatch tag=%d pc=%08x %s",
			c.cycle, tag, pkt.PC, Disassemble(pkt.Instr))
	}
	c.consumed = true
}

// stepFetch advances the frontend: fetch reacts to flush, consumption
// and the memory response, then the instruction memory registers the
// next request.
func (c *Core) stepFetch(flush bool, flushPC uint32) {
	c.fetch.Tick(flush, flushPC, c.consumed, c.imem.RValid(), c.imem.RData())
	c.imem.Tick(c.fetch.IMemEn(), c.fetch.PC())
}
