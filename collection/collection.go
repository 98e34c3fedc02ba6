package collection

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vc-labs/vectorcol/distance"
	"github.com/vc-labs/vectorcol/persistence"
)

// Collection is an in-process vector collection: the id table, vector
// store, payload store, and tombstone vector (components A-D), plus the
// query and write engines (E/F) that operate on them. It holds no
// internal lock; callers embedding it in a multi-threaded program must
// serialise access externally.
type Collection struct {
	config      CollectionConfig
	vectorNames []string // sorted, deterministic iteration order
	kernels     map[string]distance.Kernel

	ids        *idTable
	vectors    map[string]*vectorStore
	payloads   *payloadStore
	tombstones *tombstones

	persist persistence.Adapter
	logger  *zap.Logger
}

// Option configures a Collection at construction time.
type Option func(*Collection)

// WithPersistence wires a persistence.Adapter into the collection. A
// collection configured with a non-empty Location but no WithPersistence
// option is a config error: the engine never selects a concrete adapter
// on its own, the caller always wires one in explicitly.
func WithPersistence(a persistence.Adapter) Option {
	return func(c *Collection) { c.persist = a }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCollection builds a Collection from cfg, validating the vector
// configuration (cfg.Vectors is used as given; it is not normalized), and
// replaying the persistence adapter's Load (if any) to rebuild components
// A-D before returning.
func NewCollection(ctx context.Context, cfg CollectionConfig, opts ...Option) (*Collection, error) {
	vectors := cfg.Vectors
	if len(vectors) == 0 {
		return nil, NewCollectionError("NewCollection", fmt.Errorf("%w: at least one vector configuration is required", ErrConfig))
	}

	names := make([]string, 0, len(vectors))
	for name, params := range vectors {
		if params.Size <= 0 {
			return nil, NewCollectionError("NewCollection", fmt.Errorf("%w: vector %q: size must be positive, got %d", ErrConfig, name, params.Size))
		}
		if _, ok := distance.ByName(string(params.Distance)); !ok {
			return nil, NewCollectionError("NewCollection", fmt.Errorf("%w: vector %q: unknown distance metric %q", ErrConfig, name, params.Distance))
		}
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Collection{
		config:      cfg,
		vectorNames: names,
		kernels:     make(map[string]distance.Kernel, len(names)),
		ids:         newIDTable(),
		vectors:     make(map[string]*vectorStore, len(names)),
		payloads:    newPayloadStore(),
		tombstones:  newTombstones(),
		persist:     persistence.Noop{},
		logger:      zap.NewNop(),
	}
	for _, name := range names {
		params := vectors[name]
		kernel, _ := distance.ByName(string(params.Distance))
		c.kernels[name] = kernel
		c.vectors[name] = newVectorStore(params.Size)
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.Location != "" {
		if _, isNoop := c.persist.(persistence.Noop); isNoop {
			return nil, NewCollectionError("NewCollection", fmt.Errorf("%w: location %q set but no persistence adapter supplied via WithPersistence", ErrConfig, cfg.Location))
		}
	}

	if err := c.replay(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// replay rebuilds components A-D from the persistence adapter's Load, in
// the order the adapter emits records.
func (c *Collection) replay(ctx context.Context) error {
	count := 0
	err := c.persist.Load(ctx, func(rec persistence.Record) error {
		count++
		return c.loadRecord(rec)
	})
	if err != nil {
		return NewCollectionError("NewCollection", fmt.Errorf("%w: replaying persisted records: %v", ErrPersistence, err))
	}
	c.logger.Debug("replayed persisted collection", zap.Int("points", count))
	return nil
}

// loadRecord installs one persisted record directly into A-D, bypassing
// persist.Persist (the record is already durable).
func (c *Collection) loadRecord(rec persistence.Record) error {
	var ext ExternalId
	if rec.IDIsString {
		var err error
		ext, err = NewStringID(rec.IDStr)
		if err != nil {
			return err
		}
	} else {
		ext = NewNumID(rec.IDNum)
	}

	idx := c.ids.assign(ext)
	c.payloads.append(rec.Payload)
	c.tombstones.append()
	for _, name := range c.vectorNames {
		values, ok := rec.Vectors[name]
		if !ok {
			return NewCollectionError("NewCollection", fmt.Errorf("%w: persisted point %s is missing vector %q", ErrInvalidArgument, ext.String(), name))
		}
		if err := c.vectors[name].setRow(idx, values); err != nil {
			return NewCollectionError("NewCollection", err)
		}
	}
	return nil
}

// Len reports the number of internal slots ever assigned (including
// tombstoned ones).
func (c *Collection) Len() int { return c.ids.len() }

// buildRecord reconstructs the full on-disk record for idx, used by both
// the write engine's persist calls and payload-mutation re-persists.
func (c *Collection) buildRecord(ext ExternalId, idx Idx) persistence.Record {
	vectors := make(map[string][]float32, len(c.vectorNames))
	for _, name := range c.vectorNames {
		vectors[name] = copyRow(c.vectors[name].row(idx))
	}
	return persistence.Record{
		IDIsString: ext.IsString(),
		IDStr:      ext.String(),
		IDNum:      ext.Uint(),
		Payload:    map[string]any(c.payloads.get(idx).Clone()),
		Vectors:    vectors,
	}
}

// idRecord builds the identity-only record persistence.Delete needs.
func idRecord(ext ExternalId) persistence.Record {
	return persistence.Record{IDIsString: ext.IsString(), IDStr: ext.String(), IDNum: ext.Uint()}
}

// CollectionInfo is the status report returned by Info().
type CollectionInfo struct {
	Status              string
	OptimizerStatus     string
	SegmentsCount       int
	IndexedVectorsCount int
	PayloadSchema       map[string]any
	PointsCount         int
	VectorsCount        int
	Config              CollectionConfig
	HNSWConfig          HNSWConfig
	WALConfig           WALConfig
	OptimizerConfig     OptimizerConfig
}

// HNSWConfig is a cosmetic, always-defaulted compatibility field: vectorcol
// never builds an index, but echoes a self-consistent HNSW config shape so
// clients written against the remote protocol still parse info() output.
type HNSWConfig struct {
	M                  int
	EfConstruct        int
	FullScanThreshold  int
	MaxIndexingThreads int
}

// WALConfig is a cosmetic, always-defaulted compatibility field.
type WALConfig struct {
	WALCapacityMB    int
	WALSegmentsAhead int
}

// OptimizerConfig is a cosmetic, always-defaulted compatibility field.
type OptimizerConfig struct {
	DeletedThreshold     float64
	VacuumMinVectorCount int
	DefaultSegmentNumber int
}

func defaultHNSWConfig() HNSWConfig {
	return HNSWConfig{M: 16, EfConstruct: 100, FullScanThreshold: 10000, MaxIndexingThreads: 0}
}

func defaultWALConfig() WALConfig {
	return WALConfig{WALCapacityMB: 32, WALSegmentsAhead: 0}
}

func defaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{DeletedThreshold: 0.2, VacuumMinVectorCount: 1000, DefaultSegmentNumber: 0}
}

// Info reports a status snapshot matching the remote service's protocol
// shape: live counts plus the echoed config, with cosmetic HNSW/WAL/
// optimizer defaults since vectorcol never builds an index.
func (c *Collection) Info() CollectionInfo {
	points, _ := c.Count(nil)
	return CollectionInfo{
		Status:              "GREEN",
		OptimizerStatus:     "OK",
		SegmentsCount:       1,
		IndexedVectorsCount: 0,
		PayloadSchema:       map[string]any{},
		PointsCount:         points,
		VectorsCount:        points * len(c.vectorNames),
		Config:              c.config,
		HNSWConfig:          defaultHNSWConfig(),
		WALConfig:           defaultWALConfig(),
		OptimizerConfig:     defaultOptimizerConfig(),
	}
}
