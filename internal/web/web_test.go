package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psycho-70/Eservice-frontend/internal/listview"
	"github.com/psycho-70/Eservice-frontend/internal/models"
)

func TestTemplates_ParsesEveryPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	pages := []string{
		"signin.html",
		"dashboard.html",
		"forms.html",
		"confirm_delete.html",
		"verification.html",
		"verify.html",
		"verify_detail.html",
		"verify_error.html",
		"document_verify.html",
	}
	for _, name := range pages {
		assert.NotNil(t, tmpl.Lookup(name), "missing template %s", name)
	}
	for _, name := range []string{"header", "footer", "fieldList"} {
		assert.NotNil(t, tmpl.Lookup(name), "missing partial %s", name)
	}
}

func TestListURL(t *testing.T) {
	const base = "/admin/form-data"

	assert.Equal(t, base, ListURL(base, listview.DefaultState()))
	assert.Equal(t, base+"?page=3", PageURL(base, listview.DefaultState(), 3))
	assert.Equal(t, base+"?q=ab", ListURL(base, listview.DefaultState().WithQuery("ab")))
}

func TestSortURL(t *testing.T) {
	const base = "/admin/form-data"
	s := listview.DefaultState().WithPage(3)

	// A new column sorts ascending from the first page
	assert.Equal(t, base+"?dir=asc&sort=referenceNumber", SortURL(base, s, models.FieldReferenceNumber))

	// The active default column flips direction
	assert.Equal(t, base+"?dir=asc&sort=createdAt", SortURL(base, s, models.FieldCreatedAt))
}

func TestSizeURL_ResetsPage(t *testing.T) {
	s := listview.DefaultState().WithPage(4)
	assert.Equal(t, "/f?size=25", SizeURL("/f", s, 25))
}

func TestShowAllURL(t *testing.T) {
	s := listview.DefaultState()
	assert.Equal(t, "/f?show=all", ShowAllURL("/f", s, true))
	assert.Equal(t, "/f", ShowAllURL("/f", s.WithShowAll(true), false))
}

func TestSelectURL(t *testing.T) {
	s := listview.DefaultState().WithPage(2)
	assert.Equal(t, "/f?page=2&select=all", SelectURL("/f", s, true))
	assert.Equal(t, "/f?page=2&select=none", SelectURL("/f", s, false))
}

func TestSortMark(t *testing.T) {
	s := listview.DefaultState()
	assert.Equal(t, "▼", SortMark(s, models.FieldCreatedAt))
	assert.Equal(t, "▲", SortMark(s.ToggleSort(models.FieldCreatedAt), models.FieldCreatedAt))
	assert.Empty(t, SortMark(s, models.FieldReferenceNumber))
}

func TestDisplay(t *testing.T) {
	rec := models.VerificationRecord{
		ReferenceNumber: "1653542",
		CreatedAt:       time.Date(2025, 10, 14, 20, 26, 0, 0, time.UTC),
	}

	assert.Equal(t, "1653542", Display(rec, models.FieldReferenceNumber, "-"))
	assert.Equal(t, "-", Display(rec, models.FieldRoomName, "-"))
	assert.Equal(t, "14/10/2025 20:26", Display(rec, models.FieldCreatedAt, "-"))
	assert.Equal(t, "-", Display(models.VerificationRecord{}, models.FieldCreatedAt, "-"))
}

func TestVerified(t *testing.T) {
	assert.False(t, Verified(models.VerificationRecord{}))
	assert.True(t, Verified(models.VerificationRecord{IsVerificationComplete: true}))
	assert.True(t, Verified(models.VerificationRecord{RoomName: "Riyadh"}))
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Room Name", FieldLabel(models.FieldRoomName, false))
	assert.Equal(t, "إسم الغرفة", FieldLabel(models.FieldRoomName, true))
}
