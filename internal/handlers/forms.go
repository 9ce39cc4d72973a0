package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/listview"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/services"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"go.uber.org/zap"
)

// Messages shown on the form-data pages
const (
	MsgFormCreated        = "QR form created successfully"
	MsgCreateFailed       = "Failed to create QR form"
	MsgLoadFormsFailed    = "Failed to load forms"
	MsgSelectForms        = "Please select forms to delete"
	MsgFormNotFound       = "Form not found"
	MsgFormLoadFailed     = "Failed to load form"
	MsgVerificationSaved  = "Verification data saved"
	MsgUpdateFailed       = "Failed to update verification data"
	MsgAttachmentTooLarge = "PDF file must not exceed 10MB"
)

// FormAPI is the slice of the verification API the form pages call directly
type FormAPI interface {
	CreateForm(ctx context.Context, in models.CreateFormInput) (*models.VerificationRecord, error)
	GetForm(ctx context.Context, id string) (*models.VerificationRecord, error)
	services.VerificationUpdater
}

// FormHandlers serves the admin form-data pages
type FormHandlers struct {
	api   FormAPI
	forms *services.FormService
	now   func() time.Time
}

// NewFormHandlers creates form-data handlers
func NewFormHandlers(api FormAPI, forms *services.FormService) *FormHandlers {
	return &FormHandlers{api: api, forms: forms, now: time.Now}
}

// List renders one page of the admin table. The list state is read from the
// query string; select=all selects the visible page and select=none clears.
func (h *FormHandlers) List(c *gin.Context) {
	state := listview.ParseState(c.Request.URL.Query())
	view, status := h.listView(c, state)
	view.Notice, view.Error = listMessages(c.Request.URL.Query())
	if status != http.StatusOK {
		view.Error = MsgLoadFormsFailed
	}

	switch c.Query(paramSelect) {
	case "all":
		view.Selection.SelectAll(view.Result.Rows, true)
	case "none":
		view.Selection.SelectAll(view.Result.Rows, false)
	}
	view.AllSelected = view.Selection.AllSelected(view.Result.Rows)

	c.HTML(status, "forms.html", view)
}

// listView fetches every record and runs the list pipeline for state
func (h *FormHandlers) listView(c *gin.Context, state listview.State) (formsView, int) {
	ctx, span, cleanup := utils.TraceOperation(c.Request.Context(), "form_handlers.list", map[string]interface{}{
		"list.page": state.Page,
		"list.size": state.PageSize,
		"list.sort": state.SortField,
	})
	defer cleanup()

	status := http.StatusOK
	records, err := h.forms.ListForms(ctx)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		middleware.Logger(c).Error("failed to list forms", zap.Error(err))
		status = http.StatusBadGateway
	}

	result := listview.Apply(records, state)
	utils.AddSpanAttribute(span, "list.total", result.Total)

	columns := listview.Columns(state.ShowAll)
	return formsView{
		pageView:  adminPage(c, "Form Data"),
		Base:      FormDataPath,
		Result:    result,
		Columns:   columns,
		ColSpan:   len(columns) + 3,
		Selection: listview.NewSelection(),
	}, status
}

// Create runs the initial creation step and returns to the list
func (h *FormHandlers) Create(c *gin.Context) {
	state := listview.ParseState(c.Request.URL.Query())

	var in models.CreateFormInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Logger(c).Debug("create form did not bind", zap.Error(err))
	}
	in = utils.SanitizeCreateFormInput(in)

	fail := func(status int, msg string) {
		view, _ := h.listView(c, state)
		view.Create = in
		view.Error = msg
		c.HTML(status, "forms.html", view)
	}

	if result := utils.ValidateCreateForm(in); !result.IsValid {
		fail(http.StatusBadRequest, result.Message())
		return
	}

	// The create flavor has no record yet, so Submit only runs the callback
	// and the callback persists the three initial fields.
	ctx := c.Request.Context()
	form := services.NewVerificationForm(nil, h.now())
	form.Set(models.FieldFacility700, in.Facility700)

	var rec *models.VerificationRecord
	err := form.Submit(ctx, "", h.api, func(*services.VerificationForm) error {
		created, err := h.api.CreateForm(ctx, in)
		rec = created
		return err
	})
	if err != nil {
		middleware.Logger(c).Error("failed to create form", zap.Error(err))
		fail(http.StatusBadGateway, models.UserMessage(err, MsgCreateFailed))
		return
	}

	middleware.Logger(c).Info("form created", zap.String("form_id", rec.ID))
	seeOther(c, listLocation(state, url.Values{paramNotice: {noticeCreated}}))
}

// Delete is the two-step bulk delete. Without confirm=yes it renders the
// confirmation page; with it every selected form is deleted and the list is
// shown again with an empty selection.
func (h *FormHandlers) Delete(c *gin.Context) {
	sel := listview.NewSelection(c.PostFormArray("ids")...)
	state := returnState(c.PostForm(paramReturn))

	if sel.Len() == 0 {
		seeOther(c, listLocation(state, url.Values{paramError: {errorEmptySelection}}))
		return
	}

	if c.PostForm("confirm") != "yes" {
		c.HTML(http.StatusOK, "confirm_delete.html", confirmDeleteView{
			pageView:  adminPage(c, "Delete forms"),
			Prompt:    fmt.Sprintf("Are you sure you want to delete %d form(s)?", sel.Len()),
			IDs:       sel.IDs(),
			Return:    state.Encode(),
			ReturnURL: listLocation(state, nil),
		})
		return
	}

	report, err := h.forms.DeleteForms(c.Request.Context(), sel.IDs())
	if err != nil {
		middleware.Logger(c).Error("bulk delete failed", zap.Error(err))
		seeOther(c, listLocation(state, url.Values{paramError: {errorEmptySelection}}))
		return
	}

	// The selection exists only in the posted ids, so the list page the
	// redirect lands on starts with nothing selected.
	extra := url.Values{
		paramNotice: {noticeDeleted},
		paramCount:  {strconv.Itoa(len(report.Deleted))},
	}
	if !report.OK() {
		extra = url.Values{
			paramNotice: {noticeDeleteFailed},
			paramCount:  {strconv.Itoa(len(report.Failed))},
			paramTotal:  {strconv.Itoa(len(report.Failed) + len(report.Deleted))},
		}
	}
	seeOther(c, listLocation(state, extra))
}

// VerificationPage renders the verification step form for one record
func (h *FormHandlers) VerificationPage(c *gin.Context) {
	id := c.Param("id")
	state := returnState(c.Query(paramReturn))

	rec, err := h.api.GetForm(c.Request.Context(), id)
	if err != nil {
		code := errorFormLoad
		if errors.Is(err, models.ErrNotFound) {
			code = errorFormNotFound
		}
		middleware.Logger(c).Warn("failed to load form", zap.String("form_id", id), zap.Error(err))
		seeOther(c, listLocation(state, url.Values{paramError: {code}}))
		return
	}

	form := services.NewVerificationForm(rec, h.now())
	c.HTML(http.StatusOK, "verification.html", h.verificationView(c, rec, form, state))
}

// SaveVerification sends the verification step as a multipart partial update
func (h *FormHandlers) SaveVerification(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAttachmentSize+1<<20)
	if err := c.Request.ParseMultipartForm(services.MaxAttachmentSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.verificationFailed(c, id, nil, http.StatusBadRequest, MsgAttachmentTooLarge, err)
		return
	}
	state := returnState(c.PostForm(paramReturn))

	form := services.NewVerificationForm(nil, h.now())
	form.Bind(c.Request.PostForm)

	header, err := c.FormFile(services.AttachmentField)
	switch {
	case err == nil:
		if header.Size > services.MaxAttachmentSize {
			h.verificationFailed(c, id, form, http.StatusBadRequest, MsgAttachmentTooLarge, nil)
			return
		}
		file, err := header.Open()
		if err != nil {
			h.verificationFailed(c, id, form, http.StatusBadRequest, MsgUpdateFailed, err)
			return
		}
		defer file.Close()
		form.Attachment = &services.Attachment{Filename: header.Filename, Content: file}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		h.verificationFailed(c, id, form, http.StatusBadRequest, MsgUpdateFailed, err)
		return
	}

	err = form.Submit(ctx, id, h.api, func(f *services.VerificationForm) error {
		middleware.Logger(c).Info("verification saved",
			zap.String("form_id", id),
			zap.Bool("attachment", f.Attachment != nil))
		return nil
	})
	if err != nil {
		h.verificationFailed(c, id, form, http.StatusBadGateway, models.UserMessage(err, MsgUpdateFailed), err)
		return
	}

	seeOther(c, listLocation(state, url.Values{paramNotice: {noticeVerified}}))
}

// verificationFailed re-renders the verification form with the submitted
// values and msg
func (h *FormHandlers) verificationFailed(c *gin.Context, id string, form *services.VerificationForm, status int, msg string, err error) {
	if err != nil {
		middleware.Logger(c).Error("failed to update verification", zap.String("form_id", id), zap.Error(err))
	}

	rec, getErr := h.api.GetForm(c.Request.Context(), id)
	if getErr != nil {
		rec = &models.VerificationRecord{ID: id}
	}
	if form == nil {
		form = services.NewVerificationForm(rec, h.now())
	}

	view := h.verificationView(c, rec, form, returnState(c.PostForm(paramReturn)))
	view.Error = msg
	c.HTML(status, "verification.html", view)
}

func (h *FormHandlers) verificationView(c *gin.Context, rec *models.VerificationRecord, form *services.VerificationForm, state listview.State) verificationView {
	keys := services.VerificationFieldKeys()
	fields := make([]formField, 0, len(keys))
	for _, key := range keys {
		label, labelAR := models.FieldLabels(key)
		fields = append(fields, formField{Key: key, Label: label, LabelAR: labelAR, Value: form.Get(key)})
	}

	return verificationView{
		pageView:        adminPage(c, "Verification data"),
		Record:          rec,
		Fields:          fields,
		AttachmentField: services.AttachmentField,
		Return:          state.Encode(),
		ReturnURL:       listLocation(state, nil),
	}
}
