package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"storereport/domain/eval"
	"storereport/domain/layout"
	"storereport/domain/report"
	"storereport/domain/target"
	apperrors "storereport/internal/errors"
	"storereport/ports"
)

// ColumnSummary describes one indicator column of an ingested dataset, shown
// to the user right after upload.
type ColumnSummary struct {
	Label       string  `json:"label"`
	Mean        float64 `json:"mean"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	MissingRate float64 `json:"missing_rate"`
}

// UploadResult is returned to the UI after a successful ingest.
type UploadResult struct {
	UploadID    string          `json:"upload_id"`
	Filename    string          `json:"filename"`
	RecordCount int             `json:"record_count"`
	FieldCount  int             `json:"field_count"`
	Entities    []string        `json:"entities"`
	Columns     []ColumnSummary `json:"columns"`
}

// ReportService runs the full pipeline: reconcile an upload, then per request
// evaluate, lay out and render one entity's report. Datasets are immutable
// once ingested, so concurrent report generation shares them without locking;
// the mutex only guards the upload map itself.
type ReportService struct {
	evaluator *eval.Evaluator
	engine    *layout.Engine
	renderer  ports.TableRenderer

	mu       sync.RWMutex
	datasets map[string]*report.Dataset
}

func NewReportService(evaluator *eval.Evaluator, engine *layout.Engine, renderer ports.TableRenderer) *ReportService {
	return &ReportService{
		evaluator: evaluator,
		engine:    engine,
		renderer:  renderer,
		datasets:  make(map[string]*report.Dataset),
	}
}

// Ingest reconciles a raw export and stores the resulting dataset under a
// fresh upload ID.
func (s *ReportService) Ingest(raw report.RawTable, filename string) (*UploadResult, error) {
	ds, err := report.Reconcile(raw)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.datasets[id] = ds
	s.mu.Unlock()

	log.Printf("[ReportService] ingested %s: %d records, %d columns", filename, len(ds.Records), len(ds.Headers))
	return &UploadResult{
		UploadID:    id,
		Filename:    filename,
		RecordCount: len(ds.Records),
		FieldCount:  len(ds.Headers),
		Entities:    ds.Entities(),
		Columns:     summarize(ds),
	}, nil
}

// Entities returns the selection list for a stored upload.
func (s *ReportService) Entities(uploadID string) ([]string, error) {
	ds, err := s.dataset(uploadID)
	if err != nil {
		return nil, err
	}
	return ds.Entities(), nil
}

// Generate renders one entity's report and returns the PNG bytes plus a
// suggested download filename.
func (s *ReportService) Generate(ctx context.Context, uploadID, entity string) ([]byte, string, error) {
	ds, err := s.dataset(uploadID)
	if err != nil {
		return nil, "", err
	}

	records := ds.FilterByEntity(entity)
	if len(records) == 0 {
		return nil, "", apperrors.NotFound(fmt.Sprintf("entity %q", entity))
	}

	evals := make([]eval.Evaluation, len(records))
	for i, rec := range records {
		evals[i] = s.evaluator.Evaluate(rec, ds.Headers)
	}

	tl := s.engine.Build(ds, records, evals, entity)
	img, err := s.renderer.Render(ctx, tl)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "report rendering failed")
	}

	log.Printf("[ReportService] rendered report for %q (%d records, %d bytes)", entity, len(records), len(img))
	return img, fmt.Sprintf("%s_考核报表.png", entity), nil
}

// Drop discards a stored upload.
func (s *ReportService) Drop(uploadID string) {
	s.mu.Lock()
	delete(s.datasets, uploadID)
	s.mu.Unlock()
}

func (s *ReportService) dataset(uploadID string) (*report.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[uploadID]
	if !ok {
		return nil, apperrors.NotFound("upload")
	}
	return ds, nil
}

// summarize computes per-indicator-column statistics for the upload
// response: mean/min/max over the parsable values plus a missing rate.
func summarize(ds *report.Dataset) []ColumnSummary {
	var out []ColumnSummary
	for _, h := range ds.Headers {
		if !strings.Contains(h.Secondary, eval.IndicatorToken) {
			continue
		}

		var vals []float64
		missing := 0
		for _, rec := range ds.Records {
			if v, ok := target.ParseValue(rec[h.Key]); ok {
				vals = append(vals, v)
			} else {
				missing++
			}
		}

		cs := ColumnSummary{Label: h.Primary}
		if len(ds.Records) > 0 {
			cs.MissingRate = float64(missing) / float64(len(ds.Records))
		}
		if len(vals) > 0 {
			cs.Mean, _ = stats.Mean(vals)
			cs.Min, _ = stats.Min(vals)
			cs.Max, _ = stats.Max(vals)
		}
		out = append(out, cs)
	}
	return out
}
