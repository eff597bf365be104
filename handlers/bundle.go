package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Wizard session endpoints
	StartSessionHandler gin.HandlerFunc
	GetStepHandler      gin.HandlerFunc
	EndSessionHandler   gin.HandlerFunc

	// Wizard step endpoints
	SubmitPhoneHandler     gin.HandlerFunc
	SubmitBasicInfoHandler gin.HandlerFunc
	UploadPictureHandler   gin.HandlerFunc
	ContinueHandler        gin.HandlerFunc
	SubmitKYCHandler       gin.HandlerFunc
	BackHandler            gin.HandlerFunc
	RestartHandler         gin.HandlerFunc
}

// NewHandlerBundle exposes every WizardHandler endpoint.
func NewHandlerBundle(h *WizardHandler) *HandlerBundle {
	return &HandlerBundle{
		StartSessionHandler:    h.StartSessionHandler,
		GetStepHandler:         h.GetStepHandler,
		EndSessionHandler:      h.EndSessionHandler,
		SubmitPhoneHandler:     h.SubmitPhoneHandler,
		SubmitBasicInfoHandler: h.SubmitBasicInfoHandler,
		UploadPictureHandler:   h.UploadPictureHandler,
		ContinueHandler:        h.ContinueHandler,
		SubmitKYCHandler:       h.SubmitKYCHandler,
		BackHandler:            h.BackHandler,
		RestartHandler:         h.RestartHandler,
	}
}
