package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
)

// CreationDateLayout renders a timestamp as DD/MM/YYYY, HH:MM:SS
const CreationDateLayout = "02/01/2006, 15:04:05"

// AttachmentField is the multipart part name of the uploaded PDF
const AttachmentField = "pdfFile"

// MaxAttachmentSize caps the uploaded PDF
const MaxAttachmentSize = 10 << 20

// verificationFieldKeys lists the editable fields in form order
var verificationFieldKeys = []string{
	models.FieldFacilityName,
	models.FieldRoomName,
	models.FieldFacility700,
	models.FieldRequestNumber,
	models.FieldApplicantName,
	models.FieldRequestType,
	models.FieldCreationDate,
	models.FieldRequestAmount,
	models.FieldExpiryDate,
	models.FieldRecordNumber,
	models.FieldRequestStatus,
}

// VerificationFieldKeys returns the editable field keys in form order
func VerificationFieldKeys() []string {
	out := make([]string, len(verificationFieldKeys))
	copy(out, verificationFieldKeys)
	return out
}

// Attachment is a file submitted with the verification step
type Attachment struct {
	Filename string
	Content  io.Reader
}

// VerificationForm is the verification step form bound to one record, or to
// no record for the create flavor.
type VerificationForm struct {
	RecordID   string
	Fields     map[string]string
	Attachment *Attachment
}

// VerificationUpdater sends a multipart verification body for one record
type VerificationUpdater interface {
	UpdateVerification(ctx context.Context, id string, body io.Reader, contentType string) error
}

// NewVerificationForm pre-populates the form from rec. With no record, or a
// record without a creation date, the creation date defaults to now.
func NewVerificationForm(rec *models.VerificationRecord, now time.Time) *VerificationForm {
	f := &VerificationForm{Fields: make(map[string]string, len(verificationFieldKeys))}
	for _, key := range verificationFieldKeys {
		f.Fields[key] = ""
	}

	if rec != nil {
		f.RecordID = rec.ID
		for _, key := range verificationFieldKeys {
			v, _ := rec.Value(key)
			f.Fields[key] = v
		}
	}

	if f.Fields[models.FieldCreationDate] == "" {
		f.Fields[models.FieldCreationDate] = now.Format(CreationDateLayout)
	}
	return f
}

// Set assigns a field. Keys that are not editable are ignored.
func (f *VerificationForm) Set(key, value string) {
	if _, ok := f.Fields[key]; ok {
		f.Fields[key] = value
	}
}

// Get returns a field value
func (f *VerificationForm) Get(key string) string {
	return f.Fields[key]
}

// Bind copies the editable fields from a submitted form
func (f *VerificationForm) Bind(values map[string][]string) {
	for _, key := range verificationFieldKeys {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			f.Fields[key] = utils.SanitizeString(vs[0])
		}
	}
}

// Encode writes every non-empty field, plus the attachment when present, as
// a multipart body. It returns the body and its content type.
func (f *VerificationForm) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, key := range verificationFieldKeys {
		v := f.Fields[key]
		if strings.TrimSpace(v) == "" {
			continue
		}
		if err := w.WriteField(key, v); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if f.Attachment != nil && f.Attachment.Content != nil {
		part, err := w.CreateFormFile(AttachmentField, f.Attachment.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create attachment part: %w", err)
		}
		if _, err := io.Copy(part, f.Attachment.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write attachment: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// Submit saves the form. Without a record identifier only onSave runs and the
// caller decides what to persist. With one, the fields are sent as a partial
// update and onSave runs after it succeeds.
func (f *VerificationForm) Submit(ctx context.Context, id string, updater VerificationUpdater, onSave func(*VerificationForm) error) error {
	if id == "" {
		if onSave == nil {
			return nil
		}
		return onSave(f)
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "verification_form.submit", map[string]interface{}{
		"form.id":             id,
		"form.has_attachment": f.Attachment != nil,
	})
	defer cleanup()

	body, contentType, err := f.Encode()
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return err
	}

	if err := updater.UpdateVerification(ctx, id, body, contentType); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return err
	}

	if onSave == nil {
		return nil
	}
	return onSave(f)
}
