package app

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mmrzaf/colgen/internal/domain"
	"github.com/mmrzaf/colgen/internal/exec"
	"github.com/mmrzaf/colgen/internal/hashing"
	"github.com/mmrzaf/colgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/colgen/internal/logging"
	"github.com/mmrzaf/colgen/internal/metrics"
	"github.com/mmrzaf/colgen/internal/registry"
	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/validation"
	"github.com/mmrzaf/colgen/internal/value"
	"github.com/mmrzaf/colgen/internal/valuegen"
)

// ErrInvalidRequest wraps every error caused by the request itself.
var ErrInvalidRequest = errors.New("invalid sample request")

type Defaults struct {
	NullThreshold      int
	ArrayNullThreshold int
	NaNPercent         int
	BatchSize          int
	MaxRows            int
}

func DefaultDefaults() Defaults {
	return Defaults{
		NullThreshold:      valuegen.DefaultNullThreshold,
		ArrayNullThreshold: valuegen.DefaultArrayNullThreshold,
		NaNPercent:         valuegen.DefaultNaNPercent,
		BatchSize:          exec.DefaultBatchSize,
		MaxRows:            10000,
	}
}

type SampleService struct {
	schemaRepo  schemas.Repository
	genRegistry *registry.GeneratorRegistry
	validator   *validation.Validator
	executor    *exec.Executor
	defaults    Defaults
	logger      *logging.Logger
}

func NewSampleService(
	schemaRepo schemas.Repository,
	genRegistry *registry.GeneratorRegistry,
	defaults Defaults,
	logger *logging.Logger,
) *SampleService {
	return &SampleService{
		schemaRepo:  schemaRepo,
		genRegistry: genRegistry,
		validator:   validation.NewValidator(genRegistry),
		executor:    exec.NewExecutor(defaults.BatchSize),
		defaults:    defaults,
		logger:      logger.WithComponent("sample_service"),
	}
}

func (s *SampleService) ListSchemas() ([]*schema.Schema, error) {
	return s.schemaRepo.List()
}

func (s *SampleService) GetSchema(id string) (*schema.Schema, error) {
	return s.schemaRepo.Get(id)
}

func (s *SampleService) ValidateSchema(sc *schema.Schema) error {
	return s.validator.ValidateSchema(sc)
}

// Session is a prepared sample: the resolved table, its fingerprint and a
// generator seeded for this session only.
type Session struct {
	ID        string
	Schema    *schema.Schema
	Table     *schema.Table
	Config    domain.SampleConfig
	Hash      string
	NotNull   map[string]bool
	Generator *valuegen.RandomValueGenerator
}

func (s *SampleService) Prepare(req *domain.SampleRequest) (*Session, error) {
	if err := s.validator.ValidateSampleRequest(req, s.defaults.MaxRows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	sc := req.Schema
	if req.SchemaID != "" || req.SchemaPath != "" {
		var err error
		if req.SchemaID != "" {
			sc, err = s.schemaRepo.Get(req.SchemaID)
		} else {
			sc, err = s.schemaRepo.GetByPath(req.SchemaPath)
		}
		if errors.Is(err, schemas.ErrOutsideDir) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		if err := s.validator.ValidateSchema(sc); err != nil {
			return nil, fmt.Errorf("%w: schema validation failed: %w", ErrInvalidRequest, err)
		}
	}

	table, err := sc.Resolve(req.Table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	notNull := make(map[string]bool, len(req.NotNullColumns))
	known := make(map[string]bool, len(table.Columns))
	for _, name := range table.ColumnNames() {
		known[name] = true
	}
	for _, name := range req.NotNullColumns {
		if !known[name] {
			return nil, fmt.Errorf("%w: not_null_columns: unknown column %s in table %s", ErrInvalidRequest, name, table.Name)
		}
		notNull[name] = true
	}

	cfg := domain.SampleConfig{
		Table:              table.Name,
		Rows:               req.Rows,
		Seed:               pickSeed(req.Seed, sc.Seed),
		NullThreshold:      orDefault(req.NullThreshold, s.defaults.NullThreshold),
		ArrayNullThreshold: orDefault(req.ArrayNullThreshold, s.defaults.ArrayNullThreshold),
		NaNPercent:         orDefault(req.NaNPercent, s.defaults.NaNPercent),
		NotNullColumns:     req.NotNullColumns,
	}
	cfg.SchemaHash, err = hashing.HashSchema(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to hash schema: %w", err)
	}
	hash, err := hashing.HashSampleConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash sample config: %w", err)
	}

	gen, err := valuegen.NewSeeded(cfg.Seed, cfg.NullThreshold, cfg.ArrayNullThreshold,
		valuegen.WithNaNPercent(cfg.NaNPercent), valuegen.WithRegistry(s.genRegistry))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return &Session{
		ID:        hashing.SessionID(hash),
		Schema:    sc,
		Table:     table,
		Config:    cfg,
		Hash:      hash,
		NotNull:   notNull,
		Generator: gen,
	}, nil
}

// Sample streams the requested rows into sink. The result carries no rows.
func (s *SampleService) Sample(ctx context.Context, req *domain.SampleRequest, sink exec.RowSink) (*domain.SampleResult, error) {
	sess, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = "custom"
	}
	s.logger.Infow("sample.started", map[string]any{
		"session_id": sess.ID, "schema_id": sess.Schema.ID, "table": sess.Table.Name,
		"rows": sess.Config.Rows, "seed": sess.Config.Seed,
	})

	stats, err := s.executor.Execute(ctx, sess.Table, sess.Generator, sess.Config.Rows, sess.NotNull, sink)
	if err != nil {
		if errors.Is(err, valuegen.ErrUnsupportedType) {
			err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		s.logger.Errorw("sample.failed", map[string]any{"session_id": sess.ID, "error": err.Error()})
		return nil, err
	}
	metrics.SampleDuration.WithLabelValues(format).Observe(stats.DurationSeconds)

	s.logger.Infow("sample.completed", map[string]any{
		"session_id": sess.ID, "rows": stats.RowsGenerated, "duration_seconds": stats.DurationSeconds,
	})
	return newResult(sess, stats), nil
}

// Collect is Sample into memory; the rows come back on the result.
func (s *SampleService) Collect(ctx context.Context, req *domain.SampleRequest) (*domain.SampleResult, error) {
	c := &collector{}
	res, err := s.Sample(ctx, req, c)
	if err != nil {
		return nil, err
	}
	res.Rows = c.rows
	return res, nil
}

func newResult(sess *Session, stats *domain.SampleStats) *domain.SampleResult {
	cols := make([]domain.ColumnInfo, len(sess.Table.Columns))
	for i, c := range sess.Table.Columns {
		cols[i] = domain.ColumnInfo{
			Name:    c.Name,
			Type:    c.Type.String(),
			Size:    c.Size,
			NotNull: c.NotNull || sess.NotNull[c.Name],
		}
	}
	return &domain.SampleResult{
		SessionID:  sess.ID,
		SchemaID:   sess.Schema.ID,
		Table:      sess.Table.Name,
		Seed:       sess.Config.Seed,
		ConfigHash: sess.Hash,
		Columns:    cols,
		Stats:      *stats,
	}
}

type collector struct {
	rows [][]value.Value
}

func (c *collector) Open(string, []schema.Column) error { return nil }

func (c *collector) WriteBatch(rows [][]value.Value) error {
	c.rows = append(c.rows, rows...)
	return nil
}

func (c *collector) Close() error { return nil }

func pickSeed(reqSeed, schemaSeed *int64) int64 {
	switch {
	case reqSeed != nil:
		return *reqSeed
	case schemaSeed != nil:
		return *schemaSeed
	default:
		return generateSeed()
	}
}

func orDefault(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
