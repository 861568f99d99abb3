package column

// WindowView is a zero-copy contiguous sub-range of a source column
// (§4.C variant 6): reads forward to source[offset+i]. It never owns
// source, never grows, and Dispose is a no-op.
type WindowView struct {
	source Column
	offset int
	length int
}

// NewWindowView builds a window of [offset, offset+length) over
// source. Fails with OutOfRange if the window doesn't fit.
func NewWindowView(source Column, offset, length int) (*WindowView, error) {
	if offset < 0 || length < 0 || offset+length > source.Len() {
		return nil, errOutOfRange("NewWindowView")
	}
	return &WindowView{source: source, offset: offset, length: length}, nil
}

func (v *WindowView) Name() string   { return v.source.Name() }
func (v *WindowView) Type() Kind     { return v.source.Type() }
func (v *WindowView) Nullable() bool { return v.source.Nullable() }
func (v *WindowView) Len() int       { return v.length }

func (v *WindowView) IsNull(i int) bool { return v.source.IsNull(v.offset + i) }

func (v *WindowView) GetBoxed(i int) (any, bool) { return v.source.GetBoxed(v.offset + i) }

// Gather builds a new OWNING column (a deep copy), translating
// view-local indices through the window's offset before delegating to
// the source.
func (v *WindowView) Gather(indices []int) (Column, error) {
	translated := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= v.length {
			return nil, errOutOfRange("WindowView.Gather")
		}
		translated[i] = v.offset + idx
	}
	return v.source.Gather(translated)
}

// Dispose never releases the source's memory: views borrow, they don't
// own.
func (v *WindowView) Dispose() {}

// ValuesI32 forwards to the source's contiguous buffer, sliced to this
// window, when the source supports it.
func (v *WindowView) ValuesI32() []int32 {
	return v.source.(Valuer32).ValuesI32()[v.offset : v.offset+v.length]
}

// ValuesF64 is ValuesI32 for f64 sources.
func (v *WindowView) ValuesF64() []float64 {
	return v.source.(Valuer64).ValuesF64()[v.offset : v.offset+v.length]
}

// ValuesTimestamp is ValuesI32 for timestamp sources.
func (v *WindowView) ValuesTimestamp() []Timestamp {
	return v.source.(ValuerTimestamp).ValuesTimestamp()[v.offset : v.offset+v.length]
}

// GatherView is a zero-copy index-map wrapper over a source column
// (§4.C variant 7): reads forward to source[indexMap[i]]. No contiguous
// values() is exposed even when the source supports one, since the
// mapped indices are not contiguous in general.
type GatherView struct {
	source   Column
	indexMap []int
}

// NewGatherView builds a gather view. indexMap is NOT copied; callers
// must not mutate it afterward.
func NewGatherView(source Column, indexMap []int) (*GatherView, error) {
	for _, idx := range indexMap {
		if idx < 0 || idx >= source.Len() {
			return nil, errOutOfRange("NewGatherView")
		}
	}
	return &GatherView{source: source, indexMap: indexMap}, nil
}

func (v *GatherView) Name() string   { return v.source.Name() }
func (v *GatherView) Type() Kind     { return v.source.Type() }
func (v *GatherView) Nullable() bool { return v.source.Nullable() }
func (v *GatherView) Len() int       { return len(v.indexMap) }

func (v *GatherView) IsNull(i int) bool { return v.source.IsNull(v.indexMap[i]) }

func (v *GatherView) GetBoxed(i int) (any, bool) { return v.source.GetBoxed(v.indexMap[i]) }

// Gather composes: it maps view-level indices through this view's own
// index_map before delegating to the source, per §4.D.
func (v *GatherView) Gather(indices []int) (Column, error) {
	translated := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(v.indexMap) {
			return nil, errOutOfRange("GatherView.Gather")
		}
		translated[i] = v.indexMap[idx]
	}
	return v.source.Gather(translated)
}

// Dispose never releases the source's memory.
func (v *GatherView) Dispose() {}
