package collection

// idTable is a bidirectional map between external point id and dense
// internal index (component A). Indices are assigned append-only, in
// order of first insertion.
type idTable struct {
	extToIdx map[ExternalId]Idx
	idxToExt []ExternalId
}

func newIDTable() *idTable {
	return &idTable{extToIdx: make(map[ExternalId]Idx)}
}

// resolve returns the internal index for ext, if known.
func (t *idTable) resolve(ext ExternalId) (Idx, bool) {
	idx, ok := t.extToIdx[ext]
	return idx, ok
}

// assign appends a new external id and returns its newly assigned index,
// equal to the previous length. Calling assign on an id already present
// is undefined; callers must check resolve first.
func (t *idTable) assign(ext ExternalId) Idx {
	idx := Idx(len(t.idxToExt))
	t.extToIdx[ext] = idx
	t.idxToExt = append(t.idxToExt, ext)
	return idx
}

// reverse returns the external id stored at idx.
func (t *idTable) reverse(idx Idx) ExternalId {
	return t.idxToExt[idx]
}

// len returns the number of assigned indices.
func (t *idTable) len() int {
	return len(t.idxToExt)
}

// all returns every (external id, internal index) pair, for scroll/count.
func (t *idTable) all() map[ExternalId]Idx {
	return t.extToIdx
}
