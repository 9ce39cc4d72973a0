package models

import (
	"strings"
	"time"
)

// Placeholders rendered in place of absent descriptive fields
const (
	TablePlaceholder  = "-"
	DetailPlaceholder = "غير محدد"
)

// Field keys of a verification record, as used by the API and the list view
const (
	FieldReferenceNumber = "referenceNumber"
	FieldPassportNumber  = "passportNumber"
	FieldFacility700     = "facility700"
	FieldRoomName        = "roomName"
	FieldFacilityName    = "facilityName"
	FieldRequestNumber   = "requestNumber"
	FieldRequestType     = "requestType"
	FieldApplicantName   = "applicantName"
	FieldCreationDate    = "creationDate"
	FieldRequestAmount   = "requestAmount"
	FieldExpiryDate      = "expiryDate"
	FieldRecordNumber    = "recordNumber"
	FieldRequestStatus   = "requestStatus"
	FieldQRCodeURL       = "qrCodeUrl"
	FieldCreatedAt       = "createdAt"
)

// Stage is the workflow stage a record has reached
type Stage int

const (
	// StageInitial records carry only the three creation-step fields
	StageInitial Stage = iota
	// StageVerified records also carry the descriptive verification fields
	StageVerified
)

func (s Stage) String() string {
	if s == StageVerified {
		return "verified"
	}
	return "initial"
}

// PDFFile describes the document attached to a record by the verification step
type PDFFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
}

// VerificationRecord is one document submitted for QR-based verification
type VerificationRecord struct {
	ID              string `json:"_id"`
	ReferenceNumber string `json:"referenceNumber"`
	PassportNumber  string `json:"passportNumber"`
	Facility700     string `json:"facility700"`

	RoomName      string `json:"roomName,omitempty"`
	FacilityName  string `json:"facilityName,omitempty"`
	RequestNumber string `json:"requestNumber,omitempty"`
	RequestType   string `json:"requestType,omitempty"`
	ApplicantName string `json:"applicantName,omitempty"`
	CreationDate  string `json:"creationDate,omitempty"`
	RequestAmount string `json:"requestAmount,omitempty"`
	ExpiryDate    string `json:"expiryDate,omitempty"`
	RecordNumber  string `json:"recordNumber,omitempty"`
	RequestStatus string `json:"requestStatus,omitempty"`

	QRCodeURL              string    `json:"qrCodeUrl,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	IsInitialFormComplete  bool      `json:"isInitialFormComplete"`
	IsVerificationComplete bool      `json:"isVerificationComplete"`
	PDFFile                *PDFFile  `json:"pdfFile,omitempty"`
}

// FieldInfo pairs a field key with its display labels and current value
type FieldInfo struct {
	Key     string
	Label   string
	LabelAR string
	Value   string
}

// extendedFields lists the descriptive fields in display order
var extendedFields = []struct {
	key     string
	label   string
	labelAR string
	get     func(*VerificationRecord) string
}{
	{FieldRoomName, "Room Name", "إسم الغرفة", func(r *VerificationRecord) string { return r.RoomName }},
	{FieldFacilityName, "Facility Name", "إسم المنشأة", func(r *VerificationRecord) string { return r.FacilityName }},
	{FieldRequestNumber, "Request Number", "رقم الطلب", func(r *VerificationRecord) string { return r.RequestNumber }},
	{FieldRequestType, "Request Type", "نوع الطلب", func(r *VerificationRecord) string { return r.RequestType }},
	{FieldApplicantName, "Applicant Name", "مقدم الطلب", func(r *VerificationRecord) string { return r.ApplicantName }},
	{FieldCreationDate, "Created Date", "تاريخ ووقت إنشاء الطلب", func(r *VerificationRecord) string { return r.CreationDate }},
	{FieldRequestAmount, "Request Amount", "مبلغ الطلب", func(r *VerificationRecord) string { return r.RequestAmount }},
	{FieldExpiryDate, "Expiry Date", "تاريخ صلاحية الطلب", func(r *VerificationRecord) string { return r.ExpiryDate }},
	{FieldRecordNumber, "Record Number", "رقم السجل التجاري", func(r *VerificationRecord) string { return r.RecordNumber }},
	{FieldRequestStatus, "Request Status", "حالة الطلب", func(r *VerificationRecord) string { return r.RequestStatus }},
}

// FieldLabels returns the English and Arabic labels of a field key. Unknown
// keys are returned as their own label.
func FieldLabels(key string) (label, labelAR string) {
	switch key {
	case FieldReferenceNumber:
		return "Reference Number", "الرقم المرجعي"
	case FieldPassportNumber:
		return "Passport Number", "رقم الجواز"
	case FieldFacility700:
		return "Facility 700", "الرقم الموحد (700)"
	case FieldQRCodeURL:
		return "QR Code", "رمز الاستجابة السريعة"
	case FieldCreatedAt:
		return "Created At", "تاريخ الإنشاء"
	}
	for _, f := range extendedFields {
		if f.key == key {
			return f.label, f.labelAR
		}
	}
	return key, key
}

// ExtendedFieldKeys returns the keys of the descriptive fields in display order
func ExtendedFieldKeys() []string {
	keys := make([]string, len(extendedFields))
	for i, f := range extendedFields {
		keys[i] = f.key
	}
	return keys
}

// ExtendedFields returns the descriptive fields with their current values
func (r *VerificationRecord) ExtendedFields() []FieldInfo {
	fields := make([]FieldInfo, len(extendedFields))
	for i, f := range extendedFields {
		fields[i] = FieldInfo{Key: f.key, Label: f.label, LabelAR: f.labelAR, Value: f.get(r)}
	}
	return fields
}

// HasExtendedFields reports whether any descriptive field is populated
func (r *VerificationRecord) HasExtendedFields() bool {
	for _, f := range extendedFields {
		if strings.TrimSpace(f.get(r)) != "" {
			return true
		}
	}
	return false
}

// Stage derives the workflow stage. The server flag wins; records that
// predate the flag fall back to the presence of descriptive fields.
func (r *VerificationRecord) Stage() Stage {
	if r.IsVerificationComplete || r.HasExtendedFields() {
		return StageVerified
	}
	return StageInitial
}

// Value returns the string value of a field by key. ok is false for keys
// that are not declared on the record.
func (r *VerificationRecord) Value(key string) (value string, ok bool) {
	switch key {
	case FieldReferenceNumber:
		return r.ReferenceNumber, true
	case FieldPassportNumber:
		return r.PassportNumber, true
	case FieldFacility700:
		return r.Facility700, true
	case FieldQRCodeURL:
		return r.QRCodeURL, true
	case FieldCreatedAt:
		if r.CreatedAt.IsZero() {
			return "", true
		}
		return r.CreatedAt.UTC().Format(time.RFC3339), true
	}
	for _, f := range extendedFields {
		if f.key == key {
			return f.get(r), true
		}
	}
	return "", false
}

// Display returns the field value, or placeholder when it is absent
func (r *VerificationRecord) Display(key, placeholder string) string {
	v, ok := r.Value(key)
	if !ok || strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

// HasAttachment reports whether a PDF is stored for the record
func (r *VerificationRecord) HasAttachment() bool {
	return r.PDFFile != nil && r.PDFFile.Filename != ""
}

// CreatedOn reports whether the record was created on the same calendar day as t
func (r *VerificationRecord) CreatedOn(t time.Time) bool {
	if r.CreatedAt.IsZero() {
		return false
	}
	c := r.CreatedAt.In(t.Location())
	return c.Year() == t.Year() && c.YearDay() == t.YearDay()
}

// FormList is the envelope returned by GET /qr-forms
type FormList struct {
	Forms []VerificationRecord `json:"forms"`
}

// CreateFormInput is the body of the initial creation call
type CreateFormInput struct {
	ReferenceNumber string `json:"referenceNumber" form:"referenceNumber"`
	PassportNumber  string `json:"passportNumber" form:"passportNumber"`
	Facility700     string `json:"facility700" form:"facility700"`
}

// DashboardStats is returned by GET /dashboard/stats
type DashboardStats struct {
	TotalForms    int `json:"totalForms"`
	VerifiedForms int `json:"verifiedForms"`
	TodaysForms   int `json:"todaysForms"`
}
