package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/listview"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/models"
)

// Paths the handlers redirect between
const (
	SignInPath   = "/signin"
	AdminPath    = "/admin"
	FormDataPath = "/admin/form-data"
	VerifyPath   = "/verify"
)

// Query keys carrying one-shot page messages across a redirect
const (
	paramNotice = "notice"
	paramError  = "error"
	paramCount  = "count"
	paramTotal  = "total"
	paramReturn = "return"
	paramSelect = "select"
)

// pageView carries what every page header needs
type pageView struct {
	Title  string
	Email  string
	Notice string
	Error  string
}

type signinView struct {
	pageView
	SignInEmail  string
	ShowChange   bool
	ChangeEmail  string
	ChangeError  string
	ChangeNotice string
}

type dashboardView struct {
	pageView
	Stats models.DashboardStats
}

type formsView struct {
	pageView
	Base        string
	Result      listview.Result
	Columns     []listview.Column
	ColSpan     int
	Selection   *listview.Selection
	AllSelected bool
	Create      models.CreateFormInput
}

type confirmDeleteView struct {
	pageView
	Prompt    string
	IDs       []string
	Return    string
	ReturnURL string
}

type formField struct {
	Key     string
	Label   string
	LabelAR string
	Value   string
}

type verificationView struct {
	pageView
	Record          *models.VerificationRecord
	Fields          []formField
	AttachmentField string
	Return          string
	ReturnURL       string
}

type verifyView struct {
	pageView
	ReferenceNumber string
}

type verifyDetailView struct {
	pageView
	Record      *models.VerificationRecord
	Fields      []models.FieldInfo
	DownloadURL string
}

type verifyErrorView struct {
	pageView
	Message string
}

type documentVerifyView struct {
	pageView
	ReferenceNumber string
	Record          *models.VerificationRecord
	Fields          []models.FieldInfo
	DownloadURL     string
}

// adminPage builds the header for a page behind the session guard
func adminPage(c *gin.Context, title string) pageView {
	return pageView{Title: title, Email: middleware.CurrentSession(c).Email}
}

// detailFields lists the fields of the public detail views, absent values
// replaced by the detail placeholder
func detailFields(rec *models.VerificationRecord) []models.FieldInfo {
	label, labelAR := models.FieldLabels(models.FieldFacility700)
	fields := []models.FieldInfo{{
		Key:     models.FieldFacility700,
		Label:   label,
		LabelAR: labelAR,
		Value:   rec.Display(models.FieldFacility700, models.DetailPlaceholder),
	}}
	for _, f := range rec.ExtendedFields() {
		f.Value = rec.Display(f.Key, models.DetailPlaceholder)
		fields = append(fields, f)
	}
	return fields
}

// returnState sanitises a list state carried through a form post. Only the
// list parameters survive, so the value cannot redirect anywhere else.
func returnState(raw string) listview.State {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return listview.DefaultState()
	}
	return listview.ParseState(v)
}

// listLocation is the form-data list URL for s with extra one-shot params
func listLocation(s listview.State, extra url.Values) string {
	v := s.Values()
	for k, vs := range extra {
		v[k] = vs
	}
	if len(v) == 0 {
		return FormDataPath
	}
	return FormDataPath + "?" + v.Encode()
}

// Notice and error codes rendered by the list page
const (
	noticeCreated       = "created"
	noticeVerified      = "verified"
	noticeDeleted       = "deleted"
	noticeDeleteFailed  = "delete_failed"
	errorEmptySelection = "empty_selection"
	errorFormNotFound   = "form_not_found"
	errorFormLoad       = "form_load_failed"
)

// listMessages maps the one-shot codes of a list request to page messages.
// Unknown codes are ignored so arbitrary text never reaches the page.
func listMessages(q url.Values) (notice, errMsg string) {
	count, _ := strconv.Atoi(q.Get(paramCount))
	total, _ := strconv.Atoi(q.Get(paramTotal))

	switch q.Get(paramNotice) {
	case noticeCreated:
		notice = MsgFormCreated
	case noticeVerified:
		notice = MsgVerificationSaved
	case noticeDeleted:
		notice = fmt.Sprintf("Deleted %d form(s)", count)
	case noticeDeleteFailed:
		errMsg = fmt.Sprintf("Failed to delete %d of %d form(s)", count, total)
	}

	switch q.Get(paramError) {
	case errorEmptySelection:
		errMsg = MsgSelectForms
	case errorFormNotFound:
		errMsg = MsgFormNotFound
	case errorFormLoad:
		errMsg = MsgFormLoadFailed
	}
	return notice, errMsg
}

// seeOther redirects a form post to a page
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
