package core

// rsSlot is one reservation station slot. The sequence number records
// dispatch order so that selection can prefer the oldest entry.
type rsSlot struct {
	used bool
	seq  uint64
	pkt  RenamePkt
}

// RS is a reservation station: an unordered set of instructions
// waiting for their operands, one station per functional unit class.
// Wakeup compares every writeback destination against the waiting
// source tags; selection picks the oldest entry whose operands are
// both ready.
type RS struct {
	slots [RSDepth]rsSlot
}

// Reset empties the station.
func (q *RS) Reset() {
	for i := range q.slots {
		q.slots[i] = rsSlot{}
	}
}

// HasFree reports whether a slot is available for dispatch.
func (q *RS) HasFree() bool {
	for i := range q.slots {
		if !q.slots[i].used {
			return true
		}
	}
	return false
}

// Count returns the number of waiting instructions.
func (q *RS) Count() int {
	n := 0
	for i := range q.slots {
		if q.slots[i].used {
			n++
		}
	}
	return n
}

// Insert places a renamed instruction into a free slot.
func (q *RS) Insert(pkt RenamePkt, seq uint64) bool {
	for i := range q.slots {
		if !q.slots[i].used {
			q.slots[i] = rsSlot{used: true, seq: seq, pkt: pkt}
			return true
		}
	}
	return false
}

// Wakeup marks ready every waiting source that matches a broadcast
// destination register.
func (q *RS) Wakeup(prd uint8) {
	for i := range q.slots {
		s := &q.slots[i]
		if !s.used {
			continue
		}
		if s.pkt.PRS1 == prd {
			s.pkt.PRS1Ready = true
		}
		if s.pkt.PRS2 == prd {
			s.pkt.PRS2Ready = true
		}
	}
}

// SelectReady returns the slot index of the oldest entry whose
// operands are both ready, or false when nothing can issue.
func (q *RS) SelectReady() (int, bool) {
	best := -1
	for i := range q.slots {
		s := &q.slots[i]
		if !s.used || !s.pkt.IssueReady() {
			continue
		}
		if best < 0 || s.seq < q.slots[best].seq {
			best = i
		}
	}
	return best, best >= 0
}

// Oldest returns the slot index of the oldest entry regardless of
// readiness, or false when the station is empty. The load/store unit
// uses it to issue strictly in program order.
func (q *RS) Oldest() (int, bool) {
	best := -1
	for i := range q.slots {
		s := &q.slots[i]
		if !s.used {
			continue
		}
		if best < 0 || s.seq < q.slots[best].seq {
			best = i
		}
	}
	return best, best >= 0
}

// Peek returns the packet in slot i without freeing it.
func (q *RS) Peek(i int) *RenamePkt { return &q.slots[i].pkt }

// Take frees slot i and returns its packet.
func (q *RS) Take(i int) RenamePkt {
	pkt := q.slots[i].pkt
	q.slots[i] = rsSlot{}
	return pkt
}

// Kill drops every entry whose reorder buffer tag satisfies the
// predicate. Recovery uses it to drop instructions younger than the
// mispredicting branch.
func (q *RS) Kill(pred func(tag uint8) bool) {
	for i := range q.slots {
		if q.slots[i].used && pred(q.slots[i].pkt.ROBTag) {
			q.slots[i] = rsSlot{}
		}
	}
}
