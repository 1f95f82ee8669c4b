package planingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/parser"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/ukaji3/planingest-go/pkg/planingest"

// Stats counts what happened to the rows of one file.
type Stats struct {
	// RowsRead is the number of data rows below the header.
	RowsRead int `json:"rows_read" yaml:"rows_read"`
	// RowsKept passed the required-field filter.
	RowsKept int `json:"rows_kept" yaml:"rows_kept"`
	// RowsFiltered failed the required-field filter.
	RowsFiltered int `json:"rows_filtered" yaml:"rows_filtered"`
	// RowsUnexpanded were kept but had no month to expand into.
	RowsUnexpanded int `json:"rows_unexpanded" yaml:"rows_unexpanded"`
	// RecordsEmitted is len(Result.Records).
	RecordsEmitted int `json:"records_emitted" yaml:"records_emitted"`
	// CellErrors is len(Result.CellErrors).
	CellErrors int `json:"cell_errors" yaml:"cell_errors"`
}

// Result is the outcome of one successful Ingest call.
type Result struct {
	// RunID identifies the call in logs and traces.
	RunID   string
	Source  string
	Variant Variant
	Format  sheet.Format
	Sheet   string
	// Region is the occupied region that was processed.
	Region models.Region
	// Headers are the resolved column headers, one per region column.
	Headers []string
	// Records are the output rows: daily rows for shovel plans, normalized
	// rows otherwise.
	Records []models.Record
	// Shovel, Operational and Natural are typed views of Records; only the
	// one matching Variant is filled.
	Shovel      []ShovelPlanDay
	Operational []OperationalPlanRow
	Natural     []NaturalIndicatorRow
	// CellErrors lists cells emitted as null because they failed to decode.
	CellErrors []models.CellError
	Stats      Stats
}

// IngestFile ingests the workbook at path.
func IngestFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.Source == "" {
		opts.Source = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewIngestError(opts.Source, StageRead, fmt.Errorf("%w: %s", ErrFileNotFound, path))
		}
		return nil, NewIngestError(opts.Source, StageRead, err)
	}
	defer f.Close()
	return Ingest(ctx, f, opts)
}

// Ingest reads a plan workbook from r and returns its normalized records.
// Only reading r observes ctx; the rest of the call runs to completion.
func Ingest(ctx context.Context, r io.Reader, opts Options) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := opts.logger().With(
		zap.String("run_id", runID),
		zap.String("source", opts.Source),
		zap.String("variant", string(opts.Variant)),
	)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "planingest.Ingest", trace.WithAttributes(
		attribute.String("planingest.run_id", runID),
		attribute.String("planingest.source", opts.Source),
		attribute.String("planingest.variant", string(opts.Variant)),
	))
	defer func() {
		var stats Stats
		if res != nil {
			stats = res.Stats
			span.SetAttributes(
				attribute.Int("planingest.records", stats.RecordsEmitted),
				attribute.Int("planingest.cell_errors", stats.CellErrors),
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug("ingest failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		} else {
			log.Debug("ingest finished",
				zap.Int("rows_read", stats.RowsRead),
				zap.Int("rows_kept", stats.RowsKept),
				zap.Int("records", stats.RecordsEmitted),
				zap.Int("cell_errors", stats.CellErrors),
				zap.Duration("elapsed", time.Since(start)))
		}
		span.End()
		if opts.Observer != nil {
			opts.Observer.ObserveIngest(opts.Variant, stats, time.Since(start), err)
		}
	}()

	fail := func(stage Stage, err error) (*Result, error) {
		return nil, NewIngestError(opts.Source, stage, err)
	}

	if err := opts.Validate(); err != nil {
		return fail(StageOptions, err)
	}
	schema, err := opts.Schema()
	if err != nil {
		return fail(StageOptions, err)
	}
	var restrict *models.Region
	if opts.Range != "" {
		rr, err := sheet.ParseRange(opts.Range)
		if err != nil {
			return fail(StageOptions, fmt.Errorf("%w: %v", ErrInvalidOptions, err))
		}
		restrict = &rr
	}

	data, err := readAll(ctx, r, opts.maxBytes())
	if err != nil {
		return fail(StageRead, err)
	}

	grid, err := openGrid(ctx, data)
	if err != nil {
		return fail(StageOpen, err)
	}
	log.Debug("workbook opened", zap.String("sheet", grid.Name), zap.String("format", string(grid.Format)))

	p := &pipeline{
		opts:   opts,
		schema: schema,
		grid:   grid,
		result: &Result{
			RunID:   runID,
			Source:  opts.Source,
			Variant: opts.Variant,
			Format:  grid.Format,
			Sheet:   grid.Name,
		},
	}
	if stage, err := p.run(restrict); err != nil {
		return fail(stage, err)
	}
	return p.result, nil
}

func openGrid(ctx context.Context, data []byte) (*sheet.Grid, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "planingest.Open")
	defer span.End()

	grid, err := sheet.Open(data)
	switch {
	case err == nil:
		return grid, nil
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
}

// pipeline holds the state of one synchronous run over an opened grid.
type pipeline struct {
	opts   Options
	schema Schema
	grid   *sheet.Grid
	result *Result
}

func (p *pipeline) run(restrict *models.Region) (Stage, error) {
	res := p.result

	// The header rows start at the first data row inside the restriction.
	region := p.grid.Region()
	if restrict != nil {
		region = sheet.Scan(sheet.Within(p.grid, *restrict))
	}
	if region.Empty() {
		return StageScan, ErrNoData
	}
	res.Region = region

	headers, err := parser.ResolveHeaders(p.grid, region, p.schema.HeaderRows)
	if err != nil {
		return StageHeaders, err
	}
	res.Headers = headers

	raws := parser.ExtractRows(p.grid, region, headers, p.schema.HeaderRows)
	if len(raws) == 0 {
		return StageRows, fmt.Errorf("%w: only %d header row(s) in %s", ErrNoData, region.Rows(), sheet.FormatRange(region))
	}
	res.Stats.RowsRead = len(raws)

	fields := p.resolveFields(headers)
	norm := &parser.Normalizer{
		Coercer:   p.opts.coercer(),
		DateField: fields.Date,
		Override:  p.opts.Override,
		Date1904:  p.grid.Date1904(),
	}
	normalized := make([]models.Record, 0, len(raws))
	for _, raw := range raws {
		rec, cellErrs := norm.Normalize(raw)
		res.CellErrors = append(res.CellErrors, cellErrs...)
		normalized = append(normalized, rec)
	}

	kept, err := parser.FilterRequired(normalized, fields.Required)
	if err != nil {
		if _, ok := parser.FindHeader(headers, fields.Required); !ok {
			err = fmt.Errorf("%w: column %q not found", err, fields.Required)
		}
		return StageFilter, err
	}
	res.Stats.RowsKept = len(kept)
	res.Stats.RowsFiltered = len(normalized) - len(kept)

	records := kept
	if p.schema.Expand {
		records = p.expand(kept, fields)
		if len(records) == 0 {
			return StageExpand, fmt.Errorf("%w: no row has a plan month", ErrNoValidData)
		}
	}
	res.Records = records

	b := &binder{headers: headers}
	switch p.opts.Variant {
	case VariantShovel:
		res.Shovel = b.shovelDays(records, fields, norm.Coercer)
	case VariantOperational:
		res.Operational = b.operationalRows(records, fields)
	case VariantNatural:
		res.Natural = b.naturalRows(records, fields)
	}

	res.Stats.RecordsEmitted = len(res.Records)
	res.Stats.CellErrors = len(res.CellErrors)
	return "", nil
}

// resolveFields maps the configured field names onto the actual headers.
// Names without a matching header are kept; they simply match nothing.
func (p *pipeline) resolveFields(headers []string) FieldNames {
	resolve := func(name string) string {
		if name == "" {
			return ""
		}
		if h, ok := parser.FindHeader(headers, name); ok {
			return h
		}
		return name
	}
	return FieldNames{
		Date:     resolve(p.schema.Fields.Date),
		Required: resolve(p.schema.Fields.Required),
		Quantity: resolve(p.schema.Fields.Quantity),
	}
}

func (p *pipeline) expand(kept []models.Record, fields FieldNames) []models.Record {
	spec := parser.ExpandSpec{DateField: fields.Date, QuantityField: fields.Quantity}
	var out []models.Record
	for _, rec := range kept {
		target, ok := p.targetMonth(rec, fields.Date)
		if !ok {
			p.result.Stats.RowsUnexpanded++
			p.result.CellErrors = append(p.result.CellErrors, models.CellError{
				Row:    rec.Row,
				Col:    rec.Col(fields.Date),
				Header: fields.Date,
				Raw:    rec.Get(fields.Date),
				Reason: "no plan month to expand into",
			})
			continue
		}
		days, cellErr := parser.ExpandDaily(rec, spec, target)
		if cellErr != nil {
			p.result.CellErrors = append(p.result.CellErrors, *cellErr)
		}
		out = append(out, days...)
	}
	return out
}

func (p *pipeline) targetMonth(rec models.Record, dateField string) (models.YearMonth, bool) {
	if p.opts.Override != nil {
		return *p.opts.Override, true
	}
	if d, ok := rec.Get(dateField).Date(); ok {
		return models.MonthOf(d), true
	}
	return models.YearMonth{}, false
}

// ctxReader fails reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readAll(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: r}, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}
