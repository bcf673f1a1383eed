package core

// RAT is the register alias table mapping each architectural register
// to the physical register holding its current speculative value.
// Entry 0 always maps to physical register 0.
type RAT struct {
	m [NumArchRegs]uint8
}

// Reset restores the identity mapping.
func (r *RAT) Reset() {
	for i := range r.m {
		r.m[i] = uint8(i)
	}
}

// LookupSrc returns the current mapping of architectural register a.
func (r *RAT) LookupSrc(a uint8) uint8 { return r.m[a] }

// LookupOld returns the mapping a write to a will displace. At the
// instant of rename this is the same as LookupSrc.
func (r *RAT) LookupOld(a uint8) uint8 { return r.m[a] }

// Update retargets architectural register a to physical register p.
// Updates of register 0 are discarded.
func (r *RAT) Update(a, p uint8) {
	if a == 0 {
		return
	}
	r.m[a] = p
}

// Snapshot returns a copy of the full mapping.
func (r *RAT) Snapshot() [NumArchRegs]uint8 { return r.m }

// Restore replaces the full mapping.
func (r *RAT) Restore(m [NumArchRegs]uint8) { r.m = m }

// FreeList is the pool of unallocated physical registers. Register 0
// is permanently reserved; registers 32..127 start free, 1..31 back
// the initial architectural mapping and return to the pool once a
// younger writer displaces them and commits.
type FreeList struct {
	free RegSet
}

// Reset marks registers 32..127 free.
func (fl *FreeList) Reset() {
	fl.free = RegSet{}
	for p := NumArchRegs; p < NumPhysRegs; p++ {
		fl.free.Set(uint8(p))
	}
}

// HasFree reports whether any register can be allocated.
func (fl *FreeList) HasFree() bool { return fl.free.Any() }

// Alloc removes and returns the lowest-indexed free register. The
// lowest-index policy is arbitrary but must stay deterministic so runs
// are reproducible.
func (fl *FreeList) Alloc() (uint8, bool) {
	p, ok := fl.free.Lowest()
	if !ok {
		return 0, false
	}
	fl.free.Clear(p)
	return p, true
}

// Release returns register p to the pool. Releasing register 0 is a
// no-op, as is releasing a register that is already free.
func (fl *FreeList) Release(p uint8) {
	if p == 0 {
		return
	}
	fl.free.Set(p)
}

// Free reports whether register p is currently free.
func (fl *FreeList) Free(p uint8) bool { return fl.free.Has(p) }

// Snapshot returns a copy of the free set.
func (fl *FreeList) Snapshot() RegSet { return fl.free }

// Restore replaces the free set.
func (fl *FreeList) Restore(s RegSet) { fl.free = s }

// TagAllocator hands out reorder buffer tags. Its rotating next-tag
// pointer scans for the first slot that is neither live in the reorder
// buffer nor already reserved by an unconfirmed allocation; the
// reservation clears when the consumer confirms with Fire.
type TagAllocator struct {
	nextTag  uint8
	reserved [ROBDepth]bool
}

// Reset clears reservations and rewinds the pointer.
func (ta *TagAllocator) Reset() {
	ta.nextTag = 0
	ta.Flush()
}

// Alloc reserves and returns the first allocatable tag, scanning from
// the rotating pointer, or false when the reorder buffer is full.
func (ta *TagAllocator) Alloc(rob *ROB) (uint8, bool) {
	for k := 0; k < ROBDepth; k++ {
		t := (ta.nextTag + uint8(k)) % ROBDepth
		if !rob.Live(t) && !ta.reserved[t] {
			ta.reserved[t] = true
			return t, true
		}
	}
	return 0, false
}

// Fire confirms an allocation: the reservation clears and the pointer
// advances past the tag.
func (ta *TagAllocator) Fire(tag uint8) {
	ta.reserved[tag] = false
	ta.nextTag = (tag + 1) % ROBDepth
}

// Flush clears all reservations.
func (ta *TagAllocator) Flush() {
	for i := range ta.reserved {
		ta.reserved[i] = false
	}
}

// NextTag returns the rotating pointer, i.e. the post-allocation scan
// origin that checkpoints snapshot.
func (ta *TagAllocator) NextTag() uint8 { return ta.nextTag }

// SetNextTag restores the rotating pointer from a checkpoint.
func (ta *TagAllocator) SetNextTag(t uint8) { ta.nextTag = t }
