package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/domain/models"
	"github.com/mamadbah2/partsdash/internal/repository/sheets"
	"github.com/mamadbah2/partsdash/internal/repository/tabular"
	"github.com/mamadbah2/partsdash/pkg/clients/remote"
)

// ErrUnsupportedFormat indicates an upload whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrSourceUnavailable indicates a request for a source that is not configured.
var ErrSourceUnavailable = errors.New("data source not configured")

// ErrUpstream indicates a remote file or spreadsheet that could not be read.
var ErrUpstream = errors.New("upstream data source failed")

// SourceSample labels tables produced by the generator.
const SourceSample = "sample"

// SampleGenerator produces the synthetic tables.
type SampleGenerator interface {
	Generate() models.Tables
}

// Upload is a user-supplied tabular file.
type Upload struct {
	Name string
	Data []byte
}

// TableSource says where one table comes from. The zero value means sample data.
// When several fields are set the upload wins, then the URL, then the sheet range.
type TableSource struct {
	Upload     *Upload
	URL        string
	SheetRange string
}

// IsZero reports whether no source was given.
func (s TableSource) IsZero() bool {
	return s.Upload == nil && s.URL == "" && s.SheetRange == ""
}

// Request selects the data source mode and the per-table sources.
type Request struct {
	UseSample bool
	Inventory TableSource
	Purchases TableSource
}

// Result carries the loaded tables and a label for each table's origin.
type Result struct {
	Tables          models.Tables
	InventorySource string
	PurchasesSource string
}

// Provider resolves a Request into the two dashboard tables.
type Provider struct {
	sample SampleGenerator
	sheets sheets.Repository
	remote remote.Client
	logger *zap.Logger
}

// New wires a provider. sheetsRepo and remoteClient may be nil, which
// disables the corresponding sources.
func New(sample SampleGenerator, sheetsRepo sheets.Repository, remoteClient remote.Client, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{sample: sample, sheets: sheetsRepo, remote: remoteClient, logger: logger}
}

// Sample returns both tables from the generator.
func (p *Provider) Sample() Result {
	return Result{Tables: p.sample.Generate(), InventorySource: SourceSample, PurchasesSource: SourceSample}
}

// Load resolves req. In sample mode every source is ignored. Otherwise each
// table is loaded from its own source and falls back to sample data on its
// own when no source is given.
func (p *Provider) Load(ctx context.Context, req Request) (Result, error) {
	if req.UseSample || (req.Inventory.IsZero() && req.Purchases.IsZero()) {
		return p.Sample(), nil
	}

	var sample *models.Tables
	sampleTables := func() models.Tables {
		if sample == nil {
			t := p.sample.Generate()
			sample = &t
		}
		return *sample
	}

	result := Result{InventorySource: SourceSample, PurchasesSource: SourceSample}

	if req.Inventory.IsZero() {
		result.Tables.Inventory = sampleTables().Inventory
	} else {
		table, label, err := p.table(ctx, req.Inventory)
		if err != nil {
			return Result{}, fmt.Errorf("load inventory: %w", err)
		}
		records, err := tabular.DecodeInventory(table)
		if err != nil {
			return Result{}, fmt.Errorf("load inventory from %s: %w", label, err)
		}
		result.Tables.Inventory = records
		result.InventorySource = label
	}

	if req.Purchases.IsZero() {
		result.Tables.Purchases = sampleTables().Purchases
	} else {
		table, label, err := p.table(ctx, req.Purchases)
		if err != nil {
			return Result{}, fmt.Errorf("load purchases: %w", err)
		}
		records, err := tabular.DecodePurchases(table)
		if err != nil {
			return Result{}, fmt.Errorf("load purchases from %s: %w", label, err)
		}
		result.Tables.Purchases = records
		result.PurchasesSource = label
	}

	p.logger.Info("tables loaded",
		zap.String("inventory_source", result.InventorySource),
		zap.Int("inventory_rows", len(result.Tables.Inventory)),
		zap.String("purchases_source", result.PurchasesSource),
		zap.Int("purchase_rows", len(result.Tables.Purchases)))

	return result, nil
}

func (p *Provider) table(ctx context.Context, src TableSource) (tabular.Table, string, error) {
	switch {
	case src.Upload != nil:
		table, err := Decode(src.Upload.Name, src.Upload.Data)
		return table, "upload:" + src.Upload.Name, err

	case src.URL != "":
		if p.remote == nil {
			return tabular.Table{}, "", fmt.Errorf("%w: remote files", ErrSourceUnavailable)
		}
		file, err := p.remote.Fetch(ctx, src.URL)
		if err != nil {
			return tabular.Table{}, "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		table, err := Decode(file.Name, file.Data)
		return table, "url:" + src.URL, err

	default:
		if p.sheets == nil {
			return tabular.Table{}, "", fmt.Errorf("%w: google sheets", ErrSourceUnavailable)
		}
		values, err := p.sheets.ReadRange(ctx, src.SheetRange)
		if err != nil {
			return tabular.Table{}, "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		table, err := tabular.FromValues(values)
		return table, "sheet:" + src.SheetRange, err
	}
}

// Decode picks a decoder from the file extension.
func Decode(name string, data []byte) (tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return tabular.ReadCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm":
		return tabular.ReadXLSX(bytes.NewReader(data))
	case ".parquet":
		return tabular.ReadParquet(bytes.NewReader(data), int64(len(data)))
	default:
		return tabular.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// IsClientError reports whether err was caused by the request content rather
// than by the service or an upstream dependency.
func IsClientError(err error) bool {
	return errors.Is(err, tabular.ErrMalformed) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrSourceUnavailable) ||
		errors.Is(err, remote.ErrInvalidURL)
}

// IsUpstreamError reports whether err came from a remote file or spreadsheet
// source rather than from the request itself.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream) && !IsClientError(err)
}
