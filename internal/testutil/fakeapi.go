// Package testutil holds test doubles shared by package tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

// FakeAPI is an in-memory verification API served over httptest
type FakeAPI struct {
	Server *httptest.Server

	mu    sync.Mutex
	forms map[string]models.VerificationRecord
	order []string
	seq   int

	// Users maps email to password for /users/login
	Users map[string]string
	// Token is returned by a successful login
	Token string

	// Status overrides, 0 means normal behavior
	ListStatus   int
	StatsStatus  int
	GetStatus    int
	DeleteFail   map[string]int
	CreateStatus int
	UpdateStatus int

	// Observations
	Deleted        []string
	AuthHeaders    []string
	LastUpdate     map[string]string
	LastUploadName string
	LastUpload     []byte
	LastPassword   *models.ChangePasswordRequest
	Stats          models.DashboardStats
}

// NewFakeAPI starts a fake API that is closed when t finishes
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		forms:      make(map[string]models.VerificationRecord),
		Users:      map[string]string{"admin@example.com": "Secret1"},
		Token:      "test-session-token",
		DeleteFail: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /qr-forms", f.list)
	mux.HandleFunc("POST /qr-forms", f.create)
	mux.HandleFunc("GET /qr-forms/search/{ref}", f.search)
	mux.HandleFunc("GET /qr-forms/{id}", f.get)
	mux.HandleFunc("DELETE /qr-forms/{id}", f.delete)
	mux.HandleFunc("PUT /qr-forms/{id}/verification", f.update)
	mux.HandleFunc("GET /dashboard/stats", f.stats)
	mux.HandleFunc("POST /users/login", f.login)
	mux.HandleFunc("POST /users/change-password", f.changePassword)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.AuthHeaders = append(f.AuthHeaders, r.Header.Get("Authorization"))
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// Configure mutates the fake under its lock. Use it for every change made
// after the server has started serving.
func (f *FakeAPI) Configure(fn func(*FakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// LastUpdateFields returns the fields of the latest verification update
func (f *FakeAPI) LastUpdateFields() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.LastUpdate))
	for k, v := range f.LastUpdate {
		out[k] = v
	}
	return out
}

// LastUploadFile returns the name and content of the latest uploaded file
func (f *FakeAPI) LastUploadFile() (string, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LastUploadName, append([]byte(nil), f.LastUpload...)
}

// LastPasswordChange returns the latest change-password body
func (f *FakeAPI) LastPasswordChange() *models.ChangePasswordRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LastPassword
}

// URL is the API base URL
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddForm stores rec, assigning an identifier when it has none
func (f *FakeAPI) AddForm(rec models.VerificationRecord) models.VerificationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(rec)
}

func (f *FakeAPI) addLocked(rec models.VerificationRecord) models.VerificationRecord {
	f.seq++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("form-%03d", f.seq)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	}
	rec.IsInitialFormComplete = true
	f.forms[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec
}

// Form returns a stored record
func (f *FakeAPI) Form(id string) (models.VerificationRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.forms[id]
	return rec, ok
}

// Count returns the number of stored records
func (f *FakeAPI) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.forms)
}

// DeletedIDs returns the deleted identifiers sorted
func (f *FakeAPI) DeletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.Deleted...)
	sort.Strings(out)
	return out
}

// LastAuthHeader returns the Authorization header of the latest request
func (f *FakeAPI) LastAuthHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.AuthHeaders) == 0 {
		return ""
	}
	return f.AuthHeaders[len(f.AuthHeaders)-1]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListStatus != 0 {
		writeMessage(w, f.ListStatus, "list failed")
		return
	}
	forms := make([]models.VerificationRecord, 0, len(f.order))
	for _, id := range f.order {
		if rec, ok := f.forms[id]; ok {
			forms = append(forms, rec)
		}
	}
	writeJSON(w, http.StatusOK, models.FormList{Forms: forms})
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetStatus != 0 {
		writeMessage(w, f.GetStatus, "get failed")
		return
	}
	rec, ok := f.forms[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "QR form not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (f *FakeAPI) search(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := r.PathValue("ref")
	for _, id := range f.order {
		if rec, ok := f.forms[id]; ok && rec.ReferenceNumber == ref {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "No document found with this reference number")
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateStatus != 0 {
		writeMessage(w, f.CreateStatus, "Reference number already exists")
		return
	}
	var in models.CreateFormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	rec := f.addLocked(models.VerificationRecord{
		ReferenceNumber: in.ReferenceNumber,
		PassportNumber:  in.PassportNumber,
		Facility700:     in.Facility700,
		QRCodeURL:       "https://qr.example.com/" + in.ReferenceNumber + ".png",
	})
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "QR form created", "form": rec})
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "expected multipart body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateStatus != 0 {
		writeMessage(w, f.UpdateStatus, "Failed to update verification data")
		return
	}
	id := r.PathValue("id")
	rec, ok := f.forms[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "QR form not found")
		return
	}

	f.LastUpdate = make(map[string]string)
	for k, vs := range r.MultipartForm.Value {
		f.LastUpdate[k] = vs[0]
	}
	applyUpdate(&rec, f.LastUpdate)

	f.LastUploadName, f.LastUpload = "", nil
	if file, header, err := r.FormFile("pdfFile"); err == nil {
		data, _ := io.ReadAll(file)
		file.Close()
		f.LastUploadName = header.Filename
		f.LastUpload = data
		rec.PDFFile = &models.PDFFile{
			Filename:     id + ".pdf",
			OriginalName: header.Filename,
			Path:         "uploads/" + id + ".pdf",
			Size:         int64(len(data)),
		}
	}

	rec.IsVerificationComplete = true
	f.forms[id] = rec
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "updated", "form": rec})
}

func applyUpdate(rec *models.VerificationRecord, v map[string]string) {
	set := func(dst *string, key string) {
		if s, ok := v[key]; ok {
			*dst = s
		}
	}
	set(&rec.FacilityName, models.FieldFacilityName)
	set(&rec.RoomName, models.FieldRoomName)
	set(&rec.Facility700, models.FieldFacility700)
	set(&rec.RequestNumber, models.FieldRequestNumber)
	set(&rec.ApplicantName, models.FieldApplicantName)
	set(&rec.RequestType, models.FieldRequestType)
	set(&rec.CreationDate, models.FieldCreationDate)
	set(&rec.RequestAmount, models.FieldRequestAmount)
	set(&rec.ExpiryDate, models.FieldExpiryDate)
	set(&rec.RecordNumber, models.FieldRecordNumber)
	set(&rec.RequestStatus, models.FieldRequestStatus)
}

func (f *FakeAPI) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if status := f.DeleteFail[id]; status != 0 {
		writeMessage(w, status, "delete failed")
		return
	}
	delete(f.forms, id)
	f.Deleted = append(f.Deleted, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "QR form deleted"})
}

func (f *FakeAPI) stats(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatsStatus != 0 {
		writeMessage(w, f.StatsStatus, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, f.Stats)
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Email == "broken@example.com" {
		writeMessage(w, http.StatusInternalServerError, "Database unavailable")
		return
	}
	if pw, ok := f.Users[strings.ToLower(in.Email)]; !ok || pw != in.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token: f.Token,
		User:  models.User{ID: "user-1", Email: in.Email, Role: "admin"},
	})
}

func (f *FakeAPI) changePassword(w http.ResponseWriter, r *http.Request) {
	var in models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastPassword = &in
	if pw, ok := f.Users[in.Email]; !ok || pw != in.OldPassword {
		writeMessage(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}
	f.Users[in.Email] = in.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}
