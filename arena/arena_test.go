package arena

import (
	"testing"

	tu "github.com/emilio/nglayoutng/utils/testutils"
)

func TestAllocateGet(t *testing.T) {
	var a Arena[string]
	h1 := a.Allocate("one")
	h2 := a.Allocate("two")
	tu.AssertEqual(t, a.Len(), 2, "len")

	v, err := a.Get(h1)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, *v, "one", "h1")
	v, err = a.Get(h2)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, *v, "two", "h2")
}

func TestZeroHandleIsNone(t *testing.T) {
	var a Arena[int]
	tu.AssertEqual(t, Handle{}.IsNone(), true, "zero handle")
	h := a.Allocate(1)
	tu.AssertEqual(t, h.IsNone(), false, "live handle")

	_, err := a.Get(Handle{})
	tu.AssertEqual(t, err, ErrStaleHandle, "zero handle deref")
}

func TestSlotReuse(t *testing.T) {
	var a Arena[int]
	h1 := a.Allocate(1)
	h2 := a.Allocate(2)
	tu.AssertEqual(t, a.Deallocate(h1), 1, "freed value")
	tu.AssertEqual(t, a.Len(), 1, "len after free")

	// The freed slot is reused before the arena grows.
	h3 := a.Allocate(3)
	tu.AssertEqual(t, h3.index, h1.index, "slot reuse")
	tu.AssertEqual(t, h3.generation != h1.generation, true, "generation bump")

	// The old handle no longer dereferences, the new one does.
	_, err := a.Get(h1)
	tu.AssertEqual(t, err, ErrStaleHandle, "stale handle")
	v, err := a.Get(h3)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, *v, 3, "reused slot")
	v, err = a.Get(h2)
	tu.AssertNoErr(t, err)
	tu.AssertEqual(t, *v, 2, "untouched slot")
}

func TestDeallocateStalePanics(t *testing.T) {
	var a Arena[int]
	h := a.Allocate(1)
	a.Deallocate(h)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on double free")
		}
	}()
	a.Deallocate(h)
}

func TestIsEmpty(t *testing.T) {
	var a Arena[int]
	tu.AssertEqual(t, a.IsEmpty(), true, "new arena")
	h := a.Allocate(1)
	tu.AssertEqual(t, a.IsEmpty(), false, "after allocate")
	a.Deallocate(h)
	tu.AssertEqual(t, a.IsEmpty(), true, "after free")
}
