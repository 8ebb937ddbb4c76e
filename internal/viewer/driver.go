package viewer

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/structure"
)

// FetchFunc resolves a source name into a descriptor.
type FetchFunc func(ctx context.Context, source string) (*structure.Descriptor, error)

// Driver runs a render loop over any StructureLoader. Frames are drawn only
// after something changed; Tick is cheap to call on every timer event.
type Driver struct {
	Loader StructureLoader
	Fetch  FetchFunc

	dirty atomic.Bool
}

func NewDriver(l StructureLoader) *Driver {
	d := &Driver{Loader: l, Fetch: structure.Fetch}
	d.dirty.Store(true)
	return d
}

// Open fetches source and hands the descriptor to the loader.
func (d *Driver) Open(ctx context.Context, source string) LoadResult {
	desc, err := d.Fetch(ctx, source)
	if err != nil {
		return LoadResult{Message: err.Error(), Err: err}
	}
	res := d.Loader.Load(desc)
	d.Invalidate()
	return res
}

// Invalidate schedules a redraw on the next Tick.
func (d *Driver) Invalidate() {
	d.dirty.Store(true)
}

// Tick calls draw if a redraw is pending and reports whether it did.
func (d *Driver) Tick(draw func()) bool {
	if !d.dirty.CompareAndSwap(true, false) {
		return false
	}
	draw()
	return true
}

func summary(s *structure.Structure, atoms, bondCount int) string {
	return fmt.Sprintf("%s %s: %d atoms, %d bonds", elements.Formula(s.Numbers), s.Class.Dim, atoms, bondCount)
}
