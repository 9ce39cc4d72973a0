package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/models"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/utils"
	"go.uber.org/zap"
)

// Messages shown on the public verification pages
const (
	MsgDocumentNotFound = "Document not found"
	MsgSearchFailed     = "Failed to search for document"
	MsgLoadFailed       = "Failed to load document"
)

const verifyTitle = "التحقق من الوثائق"

// VerifyAPI is the slice of the verification API the public pages use
type VerifyAPI interface {
	SearchForm(ctx context.Context, referenceNumber string) (*models.VerificationRecord, error)
	GetForm(ctx context.Context, id string) (*models.VerificationRecord, error)
	DownloadURL(id string) string
}

// VerifyHandlers serves the public document lookup
type VerifyHandlers struct {
	api VerifyAPI
}

// NewVerifyHandlers creates public lookup handlers
func NewVerifyHandlers(api VerifyAPI) *VerifyHandlers {
	return &VerifyHandlers{api: api}
}

// SearchPage renders the reference number form
func (h *VerifyHandlers) SearchPage(c *gin.Context) {
	c.HTML(http.StatusOK, "verify.html", verifyView{pageView: pageView{Title: verifyTitle}})
}

// Search resolves a reference number and redirects to its detail page
func (h *VerifyHandlers) Search(c *gin.Context) {
	ref := utils.SanitizeString(c.PostForm("referenceNumber"))
	view := verifyView{pageView: pageView{Title: verifyTitle}, ReferenceNumber: ref}

	rec, status, msg := h.lookup(c, ref)
	if rec == nil {
		view.Error = msg
		c.HTML(status, "verify.html", view)
		return
	}

	c.Redirect(http.StatusSeeOther, VerifyPath+"/"+url.PathEscape(rec.ID))
}

// Detail renders one record for the public
func (h *VerifyHandlers) Detail(c *gin.Context) {
	id := c.Param("id")

	ctx, span := utils.TraceEndpointStep(c.Request.Context(), "verify_detail", map[string]interface{}{"form.id": id})
	rec, err := h.api.GetForm(ctx, id)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		span.End()

		status, msg := http.StatusBadGateway, MsgLoadFailed
		if errors.Is(err, models.ErrNotFound) {
			status, msg = http.StatusNotFound, models.UserMessage(err, MsgDocumentNotFound)
		}
		middleware.Logger(c).Warn("failed to load document", zap.String("form_id", id), zap.Error(err))
		c.HTML(status, "verify_error.html", verifyErrorView{
			pageView: pageView{Title: verifyTitle},
			Message:  msg,
		})
		return
	}
	span.End()

	c.HTML(http.StatusOK, "verify_detail.html", verifyDetailView{
		pageView:    pageView{Title: verifyTitle},
		Record:      rec,
		Fields:      detailFields(rec),
		DownloadURL: VerifyPath + "/" + url.PathEscape(rec.ID) + "/download",
	})
}

// Download sends the browser to the API's attachment download
func (h *VerifyHandlers) Download(c *gin.Context) {
	c.Redirect(http.StatusFound, h.api.DownloadURL(c.Param("id")))
}

// DocumentVerify looks a reference number up and renders the record on the
// same page. Without the parameter it renders the empty form.
func (h *VerifyHandlers) DocumentVerify(c *gin.Context) {
	raw, asked := c.GetQuery("referenceNumber")
	ref := utils.SanitizeString(raw)
	view := documentVerifyView{pageView: pageView{Title: verifyTitle}, ReferenceNumber: ref}

	if !asked {
		c.HTML(http.StatusOK, "document_verify.html", view)
		return
	}

	rec, status, msg := h.lookup(c, ref)
	if rec == nil {
		view.Error = msg
		c.HTML(status, "document_verify.html", view)
		return
	}

	view.Record = rec
	view.Fields = detailFields(rec)
	view.DownloadURL = VerifyPath + "/" + url.PathEscape(rec.ID) + "/download"
	c.HTML(http.StatusOK, "document_verify.html", view)
}

// lookup searches ref. On failure it returns the status and message to render.
func (h *VerifyHandlers) lookup(c *gin.Context, ref string) (*models.VerificationRecord, int, string) {
	ctx, span := utils.TraceInputValidation(c.Request.Context(), "reference_number", "referenceNumber")
	if result := utils.ValidateReferenceNumber(ref); !result.IsValid {
		span.End()
		observability.VerificationLookups.WithLabelValues("invalid").Inc()
		return nil, http.StatusBadRequest, result.Message()
	}
	span.End()

	rec, err := h.api.SearchForm(ctx, ref)
	if err == nil {
		observability.VerificationLookups.WithLabelValues("found").Inc()
		return rec, http.StatusOK, ""
	}

	var apiErr *models.APIError
	switch {
	case errors.Is(err, models.ErrNotFound):
		observability.VerificationLookups.WithLabelValues("not_found").Inc()
		return nil, http.StatusNotFound, models.UserMessage(err, MsgDocumentNotFound)
	case errors.As(err, &apiErr):
		observability.VerificationLookups.WithLabelValues("error").Inc()
		middleware.Logger(c).Warn("document search rejected", zap.Int("status", apiErr.Status), zap.Error(err))
		return nil, http.StatusBadGateway, models.UserMessage(err, MsgDocumentNotFound)
	}

	observability.VerificationLookups.WithLabelValues("error").Inc()
	middleware.Logger(c).Error("document search failed",
		zap.String("reference_number", ref),
		zap.Error(err))
	return nil, http.StatusBadGateway, MsgSearchFailed
}
