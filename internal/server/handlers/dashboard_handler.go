package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/domain/models"
	"github.com/mamadbah2/partsdash/internal/provider"
	"github.com/mamadbah2/partsdash/internal/repository/tabular"
	"github.com/mamadbah2/partsdash/internal/service/dashboard"
)

const defaultMaxUploadBytes = 32 << 20

// errBadSelection indicates unparseable filter parameters.
var errBadSelection = errors.New("invalid selection")

// SnapshotReader lists archived dashboard snapshots.
type SnapshotReader interface {
	LatestSnapshots(ctx context.Context, limit int64) ([]models.Snapshot, error)
}

// DashboardResponse is the JSON body of the dashboard endpoints.
type DashboardResponse struct {
	InventorySource string      `json:"inventory_source"`
	PurchasesSource string      `json:"purchases_source"`
	View            models.View `json:"view"`
}

// FiltersResponse lists the filter options and their defaults.
type FiltersResponse struct {
	ProductLines []string `json:"product_lines"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
}

// DashboardHandler exposes the dashboard view over HTTP.
type DashboardHandler struct {
	provider       *provider.Provider
	svc            *dashboard.Service
	snapshots      SnapshotReader
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(p *provider.Provider, svc *dashboard.Service, snapshots SnapshotReader, maxUploadBytes int64, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &DashboardHandler{provider: p, svc: svc, snapshots: snapshots, maxUploadBytes: maxUploadBytes, logger: logger}
}

// SampleDashboard renders the view over the sample tables.
func (h *DashboardHandler) SampleDashboard(c *gin.Context) {
	result := h.provider.Sample()
	h.respond(c, result, queryParams(c))
}

// UploadDashboard renders the view over uploaded, fetched or sheet-backed
// tables submitted as a multipart form.
func (h *DashboardHandler) UploadDashboard(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	req := provider.Request{UseSample: isTrue(c.PostForm("use_sample"))}

	var err error
	if req.Inventory, err = h.tableSource(c, "inventory"); err != nil {
		h.logger.Warn("invalid inventory upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Purchases, err = h.tableSource(c, "purchases"); err != nil {
		h.logger.Warn("invalid purchases upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.provider.Load(c.Request.Context(), req)
	if err != nil {
		if provider.IsClientError(err) {
			h.logger.Warn("rejected dashboard data", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if provider.IsUpstreamError(err) {
			h.logger.Error("dashboard data source failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load dashboard data"})
			return
		}
		h.logger.Error("failed loading dashboard data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load dashboard data"})
		return
	}

	h.respond(c, result, formParams(c))
}

// Filters returns the product-line options and default date range of the sample tables.
func (h *DashboardHandler) Filters(c *gin.Context) {
	sel := dashboard.DefaultSelection(h.provider.Sample().Tables)
	c.JSON(http.StatusOK, FiltersResponse{
		ProductLines: sel.Lines,
		Start:        sel.Start.Format(models.DateLayout),
		End:          sel.End.Format(models.DateLayout),
	})
}

// CycleCountsCSV exports the cycle-count tracker of the sample view.
func (h *DashboardHandler) CycleCountsCSV(c *gin.Context) {
	view, ok := h.sampleView(c)
	if !ok {
		return
	}
	h.writeCSV(c, "cycle-counts.csv", func(w io.Writer) error {
		return tabular.WriteCycleCountsCSV(w, view.CycleCounts)
	})
}

// PurchasesCSV exports the filtered purchase activity log of the sample view.
func (h *DashboardHandler) PurchasesCSV(c *gin.Context) {
	view, ok := h.sampleView(c)
	if !ok {
		return
	}
	h.writeCSV(c, "purchases.csv", func(w io.Writer) error {
		return tabular.WritePurchasesCSV(w, view.Purchases)
	})
}

// Snapshots lists archived KPI snapshots, newest first.
func (h *DashboardHandler) Snapshots(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot archive disabled"})
		return
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	snapshots, err := h.snapshots.LatestSnapshots(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed listing snapshots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list snapshots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

func (h *DashboardHandler) respond(c *gin.Context, result provider.Result, params selectionParams) {
	sel, err := params.resolve(result.Tables)
	if err != nil {
		h.logger.Warn("invalid dashboard selection", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		InventorySource: result.InventorySource,
		PurchasesSource: result.PurchasesSource,
		View:            h.svc.Build(result.Tables, sel),
	})
}

func (h *DashboardHandler) sampleView(c *gin.Context) (models.View, bool) {
	result := h.provider.Sample()
	sel, err := queryParams(c).resolve(result.Tables)
	if err != nil {
		h.logger.Warn("invalid export selection", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.View{}, false
	}
	return h.svc.Build(result.Tables, sel), true
}

func (h *DashboardHandler) writeCSV(c *gin.Context, filename string, write func(io.Writer) error) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)
	if err := write(c.Writer); err != nil {
		h.logger.Error("failed to export csv", zap.String("file", filename), zap.Error(err))
	}
}

func (h *DashboardHandler) tableSource(c *gin.Context, field string) (provider.TableSource, error) {
	src := provider.TableSource{
		URL:        strings.TrimSpace(c.PostForm(field + "_url")),
		SheetRange: strings.TrimSpace(c.PostForm(field + "_sheet")),
	}

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return src, nil
	}
	if err != nil {
		return src, fmt.Errorf("read %s upload: %w", field, err)
	}

	data, err := readUpload(header)
	if err != nil {
		return src, fmt.Errorf("read %s upload: %w", field, err)
	}
	src.Upload = &provider.Upload{Name: header.Filename, Data: data}
	return src, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// selectionParams carries the raw filter fields. linesGiven separates an
// explicitly empty product-line selection from an absent one.
type selectionParams struct {
	lines      []string
	linesGiven bool
	start, end string
}

func queryParams(c *gin.Context) selectionParams {
	lines, given := c.GetQueryArray("lines")
	return selectionParams{lines: lines, linesGiven: given, start: c.Query("start"), end: c.Query("end")}
}

func formParams(c *gin.Context) selectionParams {
	lines, given := c.GetPostFormArray("lines")
	return selectionParams{lines: lines, linesGiven: given, start: c.PostForm("start"), end: c.PostForm("end")}
}

// resolve fills unspecified fields from the defaults of tables.
func (p selectionParams) resolve(tables models.Tables) (models.Selection, error) {
	sel := dashboard.DefaultSelection(tables)

	if p.linesGiven {
		sel.Lines = splitList(p.lines)
	}

	var err error
	if p.start != "" {
		if sel.Start, err = time.Parse(models.DateLayout, p.start); err != nil {
			return sel, fmt.Errorf("%w: start must be YYYY-MM-DD", errBadSelection)
		}
	}
	if p.end != "" {
		if sel.End, err = time.Parse(models.DateLayout, p.end); err != nil {
			return sel, fmt.Errorf("%w: end must be YYYY-MM-DD", errBadSelection)
		}
	}
	if sel.Start.After(sel.End) {
		return sel, fmt.Errorf("%w: start %s is after end %s", errBadSelection, sel.Start.Format(models.DateLayout), sel.End.Format(models.DateLayout))
	}
	return sel, nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
