package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	fake "github.com/psycho-70/Eservice-frontend/internal/testutil"
)

func TestFormService_DeleteForms_AllSucceed(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)

	var ids []string
	for i := 0; i < 25; i++ {
		ids = append(ids, api.AddForm(models.VerificationRecord{ReferenceNumber: fmt.Sprint(i)}).ID)
	}

	report, err := svc.DeleteForms(context.Background(), ids)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err)
	assert.Len(t, report.Deleted, 25)
	assert.Equal(t, "Deleted 25 form(s)", report.Message())
	assert.Equal(t, 0, api.Count())

	sort.Strings(ids)
	assert.Equal(t, ids, api.DeletedIDs())
}

func TestFormService_DeleteForms_PartialFailure(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)

	a := api.AddForm(models.VerificationRecord{ReferenceNumber: "a"})
	b := api.AddForm(models.VerificationRecord{ReferenceNumber: "b"})
	c := api.AddForm(models.VerificationRecord{ReferenceNumber: "c"})
	api.Configure(func(a *fake.FakeAPI) { a.DeleteFail[b.ID] = http.StatusInternalServerError })

	report, err := svc.DeleteForms(context.Background(), []string{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.ElementsMatch(t, []string{a.ID, c.ID}, report.Deleted)
	assert.Equal(t, []string{b.ID}, report.Failed)
	assert.Len(t, multierr.Errors(report.Err), 1)
	assert.Equal(t, "Failed to delete 1 of 3 form(s)", report.Message())

	// the failing delete did not stop the others
	assert.Equal(t, 1, api.Count())
}

func TestFormService_DeleteForms_EmptySelection(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)

	report, err := svc.DeleteForms(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrEmptySelection)
	assert.Nil(t, report)
	assert.Empty(t, api.DeletedIDs())
}

func TestFormService_DeleteForms_CompletesAfterCancel(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)
	rec := api.AddForm(models.VerificationRecord{ReferenceNumber: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.DeleteForms(ctx, []string{rec.ID})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 0, api.Count())
}

func TestFormService_DashboardStats(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)
	api.Configure(func(a *fake.FakeAPI) { a.Stats = models.DashboardStats{TotalForms: 3, VerifiedForms: 1, TodaysForms: 1} })

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalForms)
	assert.Equal(t, 1, stats.VerifiedForms)
}

func TestFormService_DashboardStats_FallsBackToCount(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)
	api.Configure(func(a *fake.FakeAPI) { a.StatsStatus = http.StatusNotFound })
	for i := 0; i < 4; i++ {
		api.AddForm(models.VerificationRecord{ReferenceNumber: fmt.Sprint(i)})
	}

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{TotalForms: 4}, *stats)
}

func TestFormService_DashboardStats_BothFail(t *testing.T) {
	client, api := setupAPITest(t)
	svc := NewFormService(client, logging.Logger)
	api.Configure(func(a *fake.FakeAPI) {
		a.StatsStatus = http.StatusInternalServerError
		a.ListStatus = http.StatusInternalServerError
	})

	stats, err := svc.DashboardStats(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, models.DashboardStats{}, *stats)
}
