package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psycho-70/Eservice-frontend/internal/config"
	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	fake "github.com/psycho-70/Eservice-frontend/internal/testutil"
)

// setupAPITest creates a client pointed at a fresh fake API
func setupAPITest(t *testing.T) (*APIClient, *fake.FakeAPI) {
	api := fake.NewFakeAPI(t)
	client := NewAPIClient(&config.Config{
		APIBaseURL:    api.URL(),
		APITimeout:    5 * time.Second,
		APIMaxClients: 2,
	}, logging.Logger)
	t.Cleanup(client.Close)
	return client, api
}

func TestAPIClient_ListForms(t *testing.T) {
	client, api := setupAPITest(t)
	ctx := context.Background()

	forms, err := client.ListForms(ctx)
	require.NoError(t, err)
	assert.NotNil(t, forms)
	assert.Empty(t, forms)

	api.AddForm(models.VerificationRecord{ReferenceNumber: "1653542"})
	api.AddForm(models.VerificationRecord{ReferenceNumber: "1653543"})

	forms, err = client.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "1653542", forms[0].ReferenceNumber)
	assert.NotEmpty(t, forms[0].ID)
}

func TestAPIClient_GetForm(t *testing.T) {
	client, api := setupAPITest(t)
	ctx := context.Background()

	rec := api.AddForm(models.VerificationRecord{ReferenceNumber: "1653542", PassportNumber: "HJ411328"})

	got, err := client.GetForm(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "HJ411328", got.PassportNumber)

	_, err = client.GetForm(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.Equal(t, "QR form not found", models.UserMessage(err, "Document not found"))

	_, err = client.GetForm(ctx, "")
	assert.ErrorIs(t, err, models.ErrMissingID)
}

func TestAPIClient_SearchForm(t *testing.T) {
	client, api := setupAPITest(t)
	ctx := context.Background()

	rec := api.AddForm(models.VerificationRecord{ReferenceNumber: "1653542"})

	got, err := client.SearchForm(ctx, "1653542")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = client.SearchForm(ctx, "0000")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = client.SearchForm(ctx, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAPIClient_CreateForm(t *testing.T) {
	client, api := setupAPITest(t)

	rec, err := client.CreateForm(context.Background(), models.CreateFormInput{
		ReferenceNumber: "1653542",
		PassportNumber:  "HJ411328",
		Facility700:     "7003134525",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "7003134525", rec.Facility700)
	assert.Equal(t, models.StageInitial, rec.Stage())

	stored, ok := api.Form(rec.ID)
	require.True(t, ok)
	for _, f := range stored.ExtendedFields() {
		assert.Equal(t, models.DetailPlaceholder, stored.Display(f.Key, models.DetailPlaceholder))
	}

	api.Configure(func(a *fake.FakeAPI) { a.CreateStatus = http.StatusConflict })
	_, err = client.CreateForm(context.Background(), models.CreateFormInput{ReferenceNumber: "1"})
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Reference number already exists", apiErr.Message)
}

func TestAPIClient_DeleteForm(t *testing.T) {
	client, api := setupAPITest(t)
	rec := api.AddForm(models.VerificationRecord{ReferenceNumber: "1"})

	require.NoError(t, client.DeleteForm(context.Background(), rec.ID))
	assert.Equal(t, 0, api.Count())
	assert.ErrorIs(t, client.DeleteForm(context.Background(), ""), models.ErrMissingID)
}

func TestAPIClient_UpdateVerification(t *testing.T) {
	client, api := setupAPITest(t)
	rec := api.AddForm(models.VerificationRecord{ReferenceNumber: "1"})

	form := NewVerificationForm(&rec, time.Now())
	form.Set(models.FieldRoomName, "Riyadh Chamber")
	body, contentType, err := form.Encode()
	require.NoError(t, err)

	require.NoError(t, client.UpdateVerification(context.Background(), rec.ID, body, contentType))
	assert.Equal(t, "Riyadh Chamber", api.LastUpdateFields()[models.FieldRoomName])

	assert.ErrorIs(t, client.UpdateVerification(context.Background(), "", &bytes.Buffer{}, contentType), models.ErrMissingID)
}

func TestAPIClient_DashboardStats(t *testing.T) {
	client, api := setupAPITest(t)
	want := models.DashboardStats{TotalForms: 12, VerifiedForms: 5, TodaysForms: 2}
	api.Configure(func(a *fake.FakeAPI) { a.Stats = want })

	stats, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, *stats)
}

func TestAPIClient_Login(t *testing.T) {
	client, api := setupAPITest(t)

	resp, err := client.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "Secret1"})
	require.NoError(t, err)
	assert.Equal(t, api.Token, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	_, err = client.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAPIClient_ForwardsSessionToken(t *testing.T) {
	client, api := setupAPITest(t)

	_, err := client.ListForms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", api.LastAuthHeader())

	ctx := session.NewContext(context.Background(), &session.Session{Token: "tok-1"})
	_, err = client.ListForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", api.LastAuthHeader())
}

func TestAPIClient_DownloadURL(t *testing.T) {
	client := NewAPIClient(&config.Config{APIBaseURL: "https://api.example.com/api", APITimeout: time.Second}, logging.Logger)
	defer client.Close()

	assert.Equal(t, "https://api.example.com/api/qr-forms/abc/download", client.DownloadURL("abc"))
	assert.Equal(t, "https://api.example.com/api/qr-forms/a%2Fb/download", client.DownloadURL("a/b"))
}

func TestAPIClient_TransportFailure(t *testing.T) {
	client := NewAPIClient(&config.Config{APIBaseURL: "http://127.0.0.1:1", APITimeout: time.Second}, logging.Logger)
	defer client.Close()

	_, err := client.ListForms(context.Background())
	require.Error(t, err)
	var apiErr *models.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to load forms", models.UserMessage(err, "Failed to load forms"))
}

func TestAPIClient_RecordsUpstreamMetrics(t *testing.T) {
	client, api := setupAPITest(t)
	api.AddForm(models.VerificationRecord{ReferenceNumber: "1"})

	before := testutil.ToFloat64(observability.UpstreamRequests.WithLabelValues("list_forms", "200"))
	_, err := client.ListForms(context.Background())
	require.NoError(t, err)
	after := testutil.ToFloat64(observability.UpstreamRequests.WithLabelValues("list_forms", "200"))
	assert.Equal(t, before+1, after)
}
