package collection

import (
	"context"
	"fmt"
)

// UpsertPoint is one point in list-form upsert input: (id, payload?,
// vectors). The set of keys in Vectors must equal the configured vector
// name set exactly.
type UpsertPoint struct {
	ID      ExternalId
	Payload Payload // nil is treated as empty
	Vectors map[string][]float32
}

// Upsert applies each point in order; a failure at one point aborts
// there without rolling back points already applied (§4.F upsert) —
// list-form upserts are not transactional across points.
func (c *Collection) Upsert(ctx context.Context, points []UpsertPoint) error {
	for _, p := range points {
		if err := c.upsertOne(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) checkVectorNames(given map[string][]float32) error {
	if len(given) != len(c.vectorNames) {
		return fmt.Errorf("%w: expected %d named vectors, got %d", ErrInvalidArgument, len(c.vectorNames), len(given))
	}
	for _, name := range c.vectorNames {
		if _, ok := given[name]; !ok {
			return fmt.Errorf("%w: missing vector %q", ErrInvalidArgument, name)
		}
	}
	return nil
}

func (c *Collection) upsertOne(ctx context.Context, p UpsertPoint) error {
	if err := c.checkVectorNames(p.Vectors); err != nil {
		return NewCollectionError("Upsert", err)
	}
	for _, name := range c.vectorNames {
		if got, want := len(p.Vectors[name]), c.vectors[name].dim(); got != want {
			return NewCollectionError("Upsert", fmt.Errorf("vector %q: %w: expected dimension %d, got %d", name, ErrInvalidArgument, want, got))
		}
	}

	idx, known := c.ids.resolve(p.ID)
	if !known {
		idx = c.ids.assign(p.ID)
		c.payloads.append(p.Payload)
		c.tombstones.append()
	} else {
		c.payloads.replace(idx, p.Payload)
		c.tombstones.revive(idx)
	}

	for _, name := range c.vectorNames {
		if err := c.vectors[name].setRow(idx, p.Vectors[name]); err != nil {
			return NewCollectionError("Upsert", fmt.Errorf("vector %q: %w", name, err))
		}
	}

	rec := c.buildRecord(p.ID, idx)
	if err := c.persist.Persist(ctx, rec); err != nil {
		wrapped := NewCollectionError("Upsert", fmt.Errorf("%w: %v", ErrPersistence, err))
		c.warnPersist("Persist", p.ID, err)
		return wrapped
	}
	return nil
}

// UpsertBatch is the columnar batch-upsert shape: ids aligned positionally
// with an optional payload per row and, per configured vector name, one
// row of values per id. It is behaviourally identical to the equivalent
// list-form Upsert call (§8 S8).
type UpsertBatch struct {
	IDs      []ExternalId
	Payloads []Payload // nil, or same length as IDs
	Vectors  map[string][][]float32
}

// UpsertBatch converts batch to list form and applies it with Upsert.
func (c *Collection) UpsertBatch(ctx context.Context, batch UpsertBatch) error {
	points := make([]UpsertPoint, len(batch.IDs))
	for i, id := range batch.IDs {
		var payload Payload
		if batch.Payloads != nil {
			payload = batch.Payloads[i]
		}
		vectors := make(map[string][]float32, len(batch.Vectors))
		for name, rows := range batch.Vectors {
			vectors[name] = rows[i]
		}
		points[i] = UpsertPoint{ID: id, Payload: payload, Vectors: vectors}
	}
	return c.Upsert(ctx, points)
}

// resolveSelector turns a Selector into a concrete (id, idx) list,
// failing on any explicitly-named id that is not known (§4.F delete:
// "unknown ids in explicit lists are a caller error"). Filter-based
// selectors never produce unknown ids, since they are derived from the
// current id table.
func (c *Collection) resolveSelector(op string, sel Selector) ([]ExternalId, []Idx, error) {
	ids := sel.resolveIDs(c)
	idxs := make([]Idx, len(ids))
	for i, ext := range ids {
		idx, ok := c.ids.resolve(ext)
		if !ok {
			return nil, nil, NewCollectionError(op, fmt.Errorf("%w: id %s", ErrNotFound, ext.String()))
		}
		idxs[i] = idx
	}
	return ids, idxs, nil
}

// Delete marks every point named by selector as tombstoned and notifies
// persistence (§4.F delete).
func (c *Collection) Delete(ctx context.Context, selector Selector) error {
	ids, idxs, err := c.resolveSelector("Delete", selector)
	if err != nil {
		return err
	}
	for i, ext := range ids {
		c.tombstones.mark(idxs[i])
		if err := c.persist.Delete(ctx, idRecord(ext)); err != nil {
			c.warnPersist("Delete", ext, err)
			return NewCollectionError("Delete", fmt.Errorf("%w: %v", ErrPersistence, err))
		}
	}
	return nil
}

// rePersistAll re-persists every named point in full after a payload
// mutation, so the adapter's on-disk view matches current state (§4.F
// payload mutations).
func (c *Collection) rePersistAll(ctx context.Context, op string, ids []ExternalId, idxs []Idx) error {
	for i, ext := range ids {
		rec := c.buildRecord(ext, idxs[i])
		if err := c.persist.Persist(ctx, rec); err != nil {
			c.warnPersist(op, ext, err)
			return NewCollectionError(op, fmt.Errorf("%w: %v", ErrPersistence, err))
		}
	}
	return nil
}

// SetPayload shallow-merges payload into each selected point's existing
// payload; incoming keys overwrite, unrelated keys are retained.
func (c *Collection) SetPayload(ctx context.Context, payload Payload, selector Selector) error {
	ids, idxs, err := c.resolveSelector("SetPayload", selector)
	if err != nil {
		return err
	}
	for _, idx := range idxs {
		c.payloads.merge(idx, payload)
	}
	return c.rePersistAll(ctx, "SetPayload", ids, idxs)
}

// OverwritePayload replaces each selected point's payload entirely.
func (c *Collection) OverwritePayload(ctx context.Context, payload Payload, selector Selector) error {
	ids, idxs, err := c.resolveSelector("OverwritePayload", selector)
	if err != nil {
		return err
	}
	for _, idx := range idxs {
		c.payloads.replace(idx, payload)
	}
	return c.rePersistAll(ctx, "OverwritePayload", ids, idxs)
}

// DeletePayload removes the listed keys (if present) from each selected
// point's payload, keeping others.
func (c *Collection) DeletePayload(ctx context.Context, keys []string, selector Selector) error {
	ids, idxs, err := c.resolveSelector("DeletePayload", selector)
	if err != nil {
		return err
	}
	for _, idx := range idxs {
		c.payloads.removeKeys(idx, keys)
	}
	return c.rePersistAll(ctx, "DeletePayload", ids, idxs)
}

// ClearPayload replaces each selected point's payload with an empty map.
func (c *Collection) ClearPayload(ctx context.Context, selector Selector) error {
	ids, idxs, err := c.resolveSelector("ClearPayload", selector)
	if err != nil {
		return err
	}
	for _, idx := range idxs {
		c.payloads.clear(idx)
	}
	return c.rePersistAll(ctx, "ClearPayload", ids, idxs)
}
