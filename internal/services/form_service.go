package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDeleteConcurrency bounds the number of in-flight deletes
const DefaultDeleteConcurrency = 16

// FormStore is the slice of the verification API the form service needs
type FormStore interface {
	ListForms(ctx context.Context) ([]models.VerificationRecord, error)
	DeleteForm(ctx context.Context, id string) error
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// FormService runs admin operations that span several API calls
type FormService struct {
	store       FormStore
	logger      *logging.SafeLogger
	concurrency int
}

// NewFormService creates a form service on top of store
func NewFormService(store FormStore, logger *logging.SafeLogger) *FormService {
	return &FormService{
		store:       store,
		logger:      logger,
		concurrency: DefaultDeleteConcurrency,
	}
}

// DeleteReport is the outcome of a bulk delete
type DeleteReport struct {
	Deleted []string
	Failed  []string
	// Err combines every per-record error, nil when all deletes succeeded
	Err error
}

// OK reports whether every delete succeeded
func (r *DeleteReport) OK() bool {
	return len(r.Failed) == 0
}

// Message renders the outcome for the list page
func (r *DeleteReport) Message() string {
	if r.OK() {
		return fmt.Sprintf("Deleted %d form(s)", len(r.Deleted))
	}
	return fmt.Sprintf("Failed to delete %d of %d form(s)", len(r.Failed), len(r.Failed)+len(r.Deleted))
}

// DeleteForms issues one delete per identifier concurrently and waits for all
// of them. A failing delete does not stop the others. The deletes run to
// completion even if ctx is cancelled by the client going away.
func (s *FormService) DeleteForms(ctx context.Context, ids []string) (*DeleteReport, error) {
	if len(ids) == 0 {
		return nil, models.ErrEmptySelection
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "form_service.delete_forms", map[string]interface{}{
		"forms.count": len(ids),
	})
	defer cleanup()

	ctx = context.WithoutCancel(ctx)

	var (
		mu     sync.Mutex
		report DeleteReport
		g      errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.store.DeleteForm(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, id)
				report.Err = multierr.Append(report.Err, fmt.Errorf("delete form %s: %w", id, err))
				observability.FormDeletions.WithLabelValues("failed").Inc()
				return nil
			}
			report.Deleted = append(report.Deleted, id)
			observability.FormDeletions.WithLabelValues("deleted").Inc()
			return nil
		})
	}
	_ = g.Wait()

	utils.AddSpanAttribute(span, "forms.deleted", len(report.Deleted))
	utils.AddSpanAttribute(span, "forms.failed", len(report.Failed))

	if report.Err != nil {
		utils.RecordErrorInSpan(span, report.Err, nil)
		s.logger.Warn("bulk delete finished with failures",
			zap.Int("requested", len(ids)),
			zap.Int("deleted", len(report.Deleted)),
			zap.Strings("failed_ids", report.Failed),
			zap.Errors("errors", multierr.Errors(report.Err)))
	} else {
		s.logger.Info("bulk delete finished", zap.Int("deleted", len(report.Deleted)))
	}

	return &report, nil
}

// DashboardStats returns the dashboard counters. When the stats endpoint
// fails the total falls back to the number of listed records and the other
// counters are zero. The error is returned only when both calls fail.
func (s *FormService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.store.DashboardStats(ctx)
	if err == nil {
		return stats, nil
	}

	s.logger.Warn("dashboard stats unavailable, counting forms instead", zap.Error(err))

	ctx, span := utils.TraceBusinessLogic(ctx, "dashboard_stats_fallback")
	defer span.End()

	forms, listErr := s.store.ListForms(ctx)
	if listErr != nil {
		utils.RecordErrorInSpan(span, listErr, nil)
		return &models.DashboardStats{}, multierr.Combine(err, listErr)
	}
	return &models.DashboardStats{TotalForms: len(forms)}, nil
}

// ListForms returns every record
func (s *FormService) ListForms(ctx context.Context) ([]models.VerificationRecord, error) {
	return s.store.ListForms(ctx)
}
