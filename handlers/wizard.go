package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"guidewizard/models"
	"guidewizard/services/gateway"
	"guidewizard/services/session"
	"guidewizard/services/wizard"
	"guidewizard/utils"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// kycDocuments are the multipart file fields of the KYC step, in form order.
var kycDocuments = []string{"aadhaar_front", "aadhaar_back", "pan_front", "pan_back"}

// WizardHandler serves the guide registration wizard.
type WizardHandler struct {
	Service        wizard.Service
	MaxUploadBytes int64
	SessionTTL     time.Duration
}

// NewWizardHandler creates a new WizardHandler instance.
func NewWizardHandler(svc wizard.Service, maxUploadBytes int64, sessionTTL time.Duration) *WizardHandler {
	return &WizardHandler{
		Service:        svc,
		MaxUploadBytes: maxUploadBytes,
		SessionTTL:     sessionTTL,
	}
}

// WizardResponse is the body of every successful wizard call. SessionToken replaces the token the
// client sent.
type WizardResponse struct {
	SessionToken string          `json:"session_token,omitempty"`
	View         wizard.StepView `json:"view"`
	Uploaded     *bool           `json:"uploaded,omitempty"`
	Warning      string          `json:"warning,omitempty"`
}

// WizardErrorResponse adds the step the session is still on to the standard error body.
type WizardErrorResponse struct {
	utils.ErrorResponse
	View *wizard.StepView `json:"view,omitempty"`
}

// StartSessionHandler opens a new wizard session and returns its token.
func (h *WizardHandler) StartSessionHandler(c *gin.Context) {
	sess, err := h.Service.Start(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.reply(c, http.StatusCreated, sess.ID, WizardResponse{View: h.Service.View(sess)})
}

// GetStepHandler renders the step the session is on.
func (h *WizardHandler) GetStepHandler(c *gin.Context) {
	sess, err := h.Service.Load(c.Request.Context(), c.GetString("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// SubmitPhoneHandler verifies the phone number with the upstream OTP flow.
func (h *WizardHandler) SubmitPhoneHandler(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	sess, err := h.Service.SubmitPhone(c.Request.Context(), c.GetString("sessionID"), req.PhoneNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// SubmitBasicInfoHandler validates the guide's details and registers the guide.
func (h *WizardHandler) SubmitBasicInfoHandler(c *gin.Context) {
	var in wizard.BasicInfoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	sess, err := h.Service.SubmitBasicInfo(c.Request.Context(), c.GetString("sessionID"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// UploadPictureHandler uploads the profile picture. An upstream failure is reported as a warning.
func (h *WizardHandler) UploadPictureHandler(c *gin.Context) {
	var image models.Document
	doc, err := h.formImage(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}
	if doc != nil {
		image = *doc
	}

	result, err := h.Service.UploadPicture(c.Request.Context(), c.GetString("sessionID"), image)
	if err != nil {
		h.fail(c, err)
		return
	}
	uploaded := result.Uploaded
	h.reply(c, http.StatusOK, result.Session.ID, WizardResponse{
		View:     h.Service.View(result.Session),
		Uploaded: &uploaded,
		Warning:  result.Warning,
	})
}

// ContinueHandler moves from the profile picture step to KYC.
func (h *WizardHandler) ContinueHandler(c *gin.Context) {
	sess, err := h.Service.Continue(c.Request.Context(), c.GetString("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// SubmitKYCHandler submits the four identity documents and the bank account.
func (h *WizardHandler) SubmitKYCHandler(c *gin.Context) {
	docs := make(map[string]*models.Document, len(kycDocuments))
	for _, field := range kycDocuments {
		doc, err := h.formImage(c, field)
		if err != nil {
			h.fail(c, err)
			return
		}
		docs[field] = doc
	}

	bank, err := formBankAccount(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	in := wizard.KYCInput{
		AadhaarFront: docs["aadhaar_front"],
		AadhaarBack:  docs["aadhaar_back"],
		PanFront:     docs["pan_front"],
		PanBack:      docs["pan_back"],
		BankAccount:  bank,
	}
	sess, err := h.Service.SubmitKYC(c.Request.Context(), c.GetString("sessionID"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// BackHandler returns to the previous step.
func (h *WizardHandler) BackHandler(c *gin.Context) {
	sess, err := h.Service.Back(c.Request.Context(), c.GetString("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// RestartHandler clears a completed session.
func (h *WizardHandler) RestartHandler(c *gin.Context) {
	sess, err := h.Service.Restart(c.Request.Context(), c.GetString("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, sess)
}

// EndSessionHandler discards the session; its token is no longer accepted.
func (h *WizardHandler) EndSessionHandler(c *gin.Context) {
	if err := h.Service.End(c.Request.Context(), c.GetString("sessionID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WizardHandler) respond(c *gin.Context, sess *models.WizardSession) {
	h.reply(c, http.StatusOK, sess.ID, WizardResponse{View: h.Service.View(sess)})
}

// reply writes resp with a freshly signed session token. The token expires SessionTTL after the
// latest request, in step with the session store's sliding TTL.
func (h *WizardHandler) reply(c *gin.Context, status int, sessionID string, resp WizardResponse) {
	token, err := utils.GenerateSessionToken(sessionID, h.SessionTTL)
	if err != nil {
		getLogger(c).Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "Failed to issue session token"})
		return
	}
	resp.SessionToken = token
	c.JSON(status, resp)
}

// formImage reads an optional image part. A missing part is nil, not an error.
func (h *WizardHandler) formImage(c *gin.Context, field string) (*models.Document, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &wizard.ValidationError{Fields: map[string]string{field: "could not read upload"}}
	}
	doc, err := utils.ReadImage(fh, h.MaxUploadBytes)
	switch {
	case errors.Is(err, utils.ErrUploadTooLarge):
		return nil, &wizard.ValidationError{Fields: map[string]string{
			field: fmt.Sprintf("must be at most %d bytes", h.MaxUploadBytes),
		}}
	case errors.Is(err, utils.ErrUploadEmpty), errors.Is(err, utils.ErrUploadNotAnImage):
		return nil, &wizard.ValidationError{Fields: map[string]string{field: err.Error()}}
	case err != nil:
		return nil, err
	}
	return &doc, nil
}

// formBankAccount accepts either a "bank_account" JSON field or one form field per attribute,
// named "bank_account.<attribute>".
func formBankAccount(c *gin.Context) (models.BankAccount, error) {
	var bank models.BankAccount
	if raw := c.PostForm("bank_account"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &bank); err != nil {
			return bank, &wizard.ValidationError{Fields: map[string]string{"bank_account": "must be a JSON object"}}
		}
		return bank, nil
	}
	bank.HolderName = c.PostForm("bank_account.holder_name")
	bank.AccountNumber = c.PostForm("bank_account.account_number")
	bank.IFSC = c.PostForm("bank_account.ifsc")
	bank.BankName = c.PostForm("bank_account.bank_name")
	bank.Branch = c.PostForm("bank_account.branch")
	return bank, nil
}

// fail maps a wizard error to its HTTP status and attaches the step the session is still on.
func (h *WizardHandler) fail(c *gin.Context, err error) {
	status, body := errorResponse(err)
	logger := getLogger(c)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		logger.Error(body.Message, zap.Error(err))
	} else {
		logger.Warn(body.Message, zap.Int("status", status), zap.Error(err))
	}

	resp := WizardErrorResponse{ErrorResponse: body}
	if status != http.StatusUnauthorized {
		if id := c.GetString("sessionID"); id != "" {
			if sess, lerr := h.Service.Load(c.Request.Context(), id); lerr == nil {
				view := h.Service.View(sess)
				resp.View = &view
			}
		}
	}
	c.JSON(status, resp)
}

func errorResponse(err error) (int, utils.ErrorResponse) {
	var (
		verr    *wizard.ValidationError
		httpErr *gateway.HTTPError
		netErr  *gateway.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, utils.ErrorResponse{Message: "Validation failed", Fields: verr.Fields}
	case errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict, utils.ErrorResponse{Message: "Action not available at this step", Details: err.Error()}
	case errors.Is(err, wizard.ErrSessionBusy):
		return http.StatusConflict, utils.ErrorResponse{Message: "Another request for this session is in progress"}
	case errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized, utils.ErrorResponse{Message: "Session not found or expired"}
	case errors.As(err, &httpErr):
		return http.StatusBadGateway, utils.ErrorResponse{
			Message: "Guide API rejected the request",
			Details: fmt.Sprintf("%s returned %d: %s", httpErr.Op, httpErr.StatusCode, httpErr.Body),
		}
	case errors.As(err, &netErr):
		return http.StatusBadGateway, utils.ErrorResponse{Message: "Guide API unreachable", Details: netErr.Error()}
	case errors.Is(err, gateway.ErrMalformedResponse):
		return http.StatusBadGateway, utils.ErrorResponse{Message: "Guide API returned an unexpected response", Details: err.Error()}
	default:
		return http.StatusInternalServerError, utils.ErrorResponse{Message: "Internal Server Error"}
	}
}
