package core

import "testing"

func TestRATResetIdentity(t *testing.T) {
	var rat RAT
	rat.Reset()
	for a := uint8(0); a < NumArchRegs; a++ {
		if rat.LookupSrc(a) != a {
			t.Fatalf("rat[%d] = %d", a, rat.LookupSrc(a))
		}
	}
}

func TestRATUpdateZeroIsNop(t *testing.T) {
	var rat RAT
	rat.Reset()
	rat.Update(0, 42)
	if rat.LookupSrc(0) != 0 {
		t.Error("rat[0] moved")
	}
	rat.Update(7, 42)
	if rat.LookupSrc(7) != 42 || rat.LookupOld(7) != 42 {
		t.Error("rat[7] did not move")
	}
}

func TestRATSnapshotRestore(t *testing.T) {
	var rat RAT
	rat.Reset()
	snap := rat.Snapshot()
	rat.Update(3, 99)
	rat.Restore(snap)
	if rat.LookupSrc(3) != 3 {
		t.Error("restore did not undo update")
	}
}

func TestFreeListAllocDeterministic(t *testing.T) {
	var fl FreeList
	fl.Reset()
	p, ok := fl.Alloc()
	if !ok || p != NumArchRegs {
		t.Fatalf("first alloc: got p%d ok=%v, want p%d", p, ok, NumArchRegs)
	}
	q, _ := fl.Alloc()
	if q != NumArchRegs+1 {
		t.Fatalf("second alloc: got p%d", q)
	}
	fl.Release(p)
	r, _ := fl.Alloc()
	if r != p {
		t.Fatalf("realloc after release: got p%d, want p%d", r, p)
	}
}

func TestFreeListExhaustion(t *testing.T) {
	var fl FreeList
	fl.Reset()
	for i := 0; i < NumPhysRegs-NumArchRegs; i++ {
		if _, ok := fl.Alloc(); !ok {
			t.Fatalf("alloc %d failed early", i)
		}
	}
	if fl.HasFree() {
		t.Error("free list not empty after exhaustion")
	}
	if _, ok := fl.Alloc(); ok {
		t.Error("alloc succeeded on empty list")
	}
}

func TestFreeListReleaseZeroIsNop(t *testing.T) {
	var fl FreeList
	fl.Reset()
	fl.Release(0)
	if fl.Free(0) {
		t.Error("p0 became free")
	}
	// double release is idempotent
	fl.Release(40)
	fl.Release(40)
	snap := fl.Snapshot()
	if got := snap.Count(); got != NumPhysRegs-NumArchRegs {
		t.Errorf("free count: got %d", got)
	}
}

func TestFreeListReleaseInitialMapping(t *testing.T) {
	// Registers 1..31 back the initial architectural mapping; once a
	// commit displaces one it rejoins the pool.
	var fl FreeList
	fl.Reset()
	fl.Release(5)
	if !fl.Free(5) {
		t.Error("p5 not free after release")
	}
}

func TestTagAllocatorSequence(t *testing.T) {
	var rob ROB
	rob.Reset()
	var ta TagAllocator
	ta.Reset()
	for want := uint8(0); want < ROBDepth; want++ {
		tag, ok := ta.Alloc(&rob)
		if !ok || tag != want {
			t.Fatalf("alloc: got %d ok=%v, want %d", tag, ok, want)
		}
		rob.Dispatch(tag, ROBEntry{})
		ta.Fire(tag)
	}
	if _, ok := ta.Alloc(&rob); ok {
		t.Error("alloc succeeded with full rob")
	}
	// retire one; the freed slot is the next handed out
	rob.MarkDone(rob.Head())
	rob.CommitHead()
	tag, ok := ta.Alloc(&rob)
	if !ok || tag != 0 {
		t.Fatalf("alloc after commit: got %d ok=%v", tag, ok)
	}
}

func TestTagAllocatorReservation(t *testing.T) {
	var rob ROB
	rob.Reset()
	var ta TagAllocator
	ta.Reset()
	tag, ok := ta.Alloc(&rob)
	if !ok {
		t.Fatal("alloc failed")
	}
	// unconfirmed reservation blocks re-allocation of the same slot
	again, ok := ta.Alloc(&rob)
	if !ok || again == tag {
		t.Fatalf("reserved tag handed out twice: %d, %d", tag, again)
	}
	ta.Flush()
	retry, ok := ta.Alloc(&rob)
	if !ok || retry != tag {
		t.Fatalf("flush did not clear reservation: got %d, want %d", retry, tag)
	}
}

func TestTagAllocatorRestore(t *testing.T) {
	var ta TagAllocator
	ta.Reset()
	ta.SetNextTag(7)
	if ta.NextTag() != 7 {
		t.Fatal("next tag not restored")
	}
	var rob ROB
	rob.Reset()
	tag, ok := ta.Alloc(&rob)
	if !ok || tag != 7 {
		t.Fatalf("alloc after restore: got %d", tag)
	}
}

func TestRegSetBasics(t *testing.T) {
	var s RegSet
	s.Set(0)
	s.Set(63)
	s.Set(64)
	s.Set(127)
	if !s.Has(0) || !s.Has(63) || !s.Has(64) || !s.Has(127) || s.Has(1) {
		t.Fatal("membership wrong")
	}
	if s.Count() != 4 {
		t.Fatalf("count: got %d", s.Count())
	}
	s.Clear(63)
	if s.Has(63) || s.Count() != 3 {
		t.Fatal("clear failed")
	}
	p, ok := s.Lowest()
	if !ok || p != 0 {
		t.Fatalf("lowest: got %d", p)
	}
	var o RegSet
	o.Set(5)
	u := s.Union(o)
	if !u.Has(5) || !u.Has(127) || u.Count() != 4 {
		t.Fatal("union wrong")
	}
}
