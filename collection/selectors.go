package collection

// Selector names a set of points (component H): an explicit id list, a
// filter, or either wrapped in the "object" shape the wire protocol uses.
type Selector interface {
	resolveIDs(c *Collection) []ExternalId
}

// IDListSelector selects exactly the given ids (list form or the
// id-list-object form — both resolve identically).
type IDListSelector struct {
	IDs []ExternalId
}

func (s IDListSelector) resolveIDs(c *Collection) []ExternalId {
	return s.IDs
}

// FilterSelector selects every point currently matching Filter (filter
// form or the filter-selector-object form — both resolve identically).
// Already-tombstoned points are never re-selected.
type FilterSelector struct {
	Filter QueryFilter
}

func (s FilterSelector) resolveIDs(c *Collection) []ExternalId {
	payloads := c.payloads.rows
	idToExt := make([]ExternalId, len(payloads))
	for ext, idx := range c.ids.all() {
		idToExt[idx] = ext
	}
	mask := maskFor(s.Filter, payloads, idToExt)

	var out []ExternalId
	for ext, idx := range c.ids.all() {
		if mask[idx] && c.tombstones.alive(idx) {
			out = append(out, ext)
		}
	}
	return out
}

// PayloadMode selects the shape of a payload projection.
type PayloadMode int

const (
	PayloadNone PayloadMode = iota
	PayloadAll
	PayloadOnlyKeys
	PayloadExceptKeys
)

// PayloadProjection is the caller-specified shape of a projected payload.
type PayloadProjection struct {
	Mode PayloadMode
	Keys []string
}

// NoPayload omits the payload entirely.
func NoPayload() PayloadProjection { return PayloadProjection{Mode: PayloadNone} }

// AllPayload returns the full payload.
func AllPayload() PayloadProjection { return PayloadProjection{Mode: PayloadAll} }

// IncludePayload restricts the payload to the given keys (list form and
// include-selector form are the same projection).
func IncludePayload(keys []string) PayloadProjection {
	return PayloadProjection{Mode: PayloadOnlyKeys, Keys: keys}
}

// ExcludePayload returns the payload minus the given keys.
func ExcludePayload(keys []string) PayloadProjection {
	return PayloadProjection{Mode: PayloadExceptKeys, Keys: keys}
}

// apply projects payload according to p. Missing keys are silently
// dropped, never emitted as null.
func (p PayloadProjection) apply(payload Payload) Payload {
	switch p.Mode {
	case PayloadNone:
		return nil
	case PayloadAll:
		return payload
	case PayloadOnlyKeys:
		out := Payload{}
		for _, k := range p.Keys {
			if v, ok := payload[k]; ok {
				out[k] = v
			}
		}
		return out
	case PayloadExceptKeys:
		excluded := make(map[string]struct{}, len(p.Keys))
		for _, k := range p.Keys {
			excluded[k] = struct{}{}
		}
		out := Payload{}
		for k, v := range payload {
			if _, skip := excluded[k]; !skip {
				out[k] = v
			}
		}
		return out
	default:
		return nil
	}
}

// VectorMode selects the shape of a vector projection.
type VectorMode int

const (
	VectorsNone VectorMode = iota
	VectorsAll
	VectorsOnlyNames
)

// VectorProjection is the caller-specified shape of projected vectors.
type VectorProjection struct {
	Mode  VectorMode
	Names []string
}

// NoVectors omits vectors entirely.
func NoVectors() VectorProjection { return VectorProjection{Mode: VectorsNone} }

// AllVectors returns every configured named vector.
func AllVectors() VectorProjection { return VectorProjection{Mode: VectorsAll} }

// NamedVectors restricts the projection to the given names.
func NamedVectors(names []string) VectorProjection {
	return VectorProjection{Mode: VectorsOnlyNames, Names: names}
}

// apply projects the vectors stored at idx according to v. When the
// configured name set is exactly {""}, VectorsAll unwraps to the single
// array instead of a name->array map (§4.H); the name-list form never
// unwraps.
func (v VectorProjection) apply(c *Collection, idx Idx) any {
	switch v.Mode {
	case VectorsNone:
		return nil
	case VectorsAll:
		if len(c.vectorNames) == 1 && c.vectorNames[0] == DefaultVectorName {
			return copyRow(c.vectors[DefaultVectorName].row(idx))
		}
		out := make(map[string][]float32, len(c.vectorNames))
		for _, name := range c.vectorNames {
			out[name] = copyRow(c.vectors[name].row(idx))
		}
		return out
	case VectorsOnlyNames:
		out := make(map[string][]float32, len(v.Names))
		for _, name := range v.Names {
			if store, ok := c.vectors[name]; ok {
				out[name] = copyRow(store.row(idx))
			}
		}
		return out
	default:
		return nil
	}
}

func copyRow(row []float32) []float32 {
	out := make([]float32, len(row))
	copy(out, row)
	return out
}
