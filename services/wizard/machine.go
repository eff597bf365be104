package wizard

import (
	"context"

	"guidewizard/models"
	"guidewizard/utils"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Wizard events.
const (
	EventVerifyPhone = "verify_phone"
	EventRegister    = "register"
	EventContinue    = "continue"
	EventSubmitKYC   = "submit_kyc"
	EventBack        = "back"
	EventRestart     = "restart"
)

var (
	statePhone   = models.StepPhoneVerification.String()
	stateBasic   = models.StepBasicInfo.String()
	statePicture = models.StepProfilePicture.String()
	stateKYC     = models.StepKYC.String()
	stateSuccess = models.StepSuccess.String()
)

// transitions is the whole wizard: linear forward, one step back from 2..4, restart from 5.
var transitions = fsm.Events{
	{Name: EventVerifyPhone, Src: []string{statePhone}, Dst: stateBasic},
	{Name: EventRegister, Src: []string{stateBasic}, Dst: statePicture},
	{Name: EventContinue, Src: []string{statePicture}, Dst: stateKYC},
	{Name: EventSubmitKYC, Src: []string{stateKYC}, Dst: stateSuccess},

	{Name: EventBack, Src: []string{stateBasic}, Dst: statePhone},
	{Name: EventBack, Src: []string{statePicture}, Dst: stateBasic},
	{Name: EventBack, Src: []string{stateKYC}, Dst: statePicture},

	{Name: EventRestart, Src: []string{stateSuccess}, Dst: statePhone},
}

// newMachine rebuilds the state machine at the session's current step.
func newMachine(sessionID string, current models.Step, logger *zap.Logger) *fsm.FSM {
	return fsm.NewFSM(
		current.String(),
		transitions,
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				utils.WizardTransitions.WithLabelValues(e.Event, e.Src, e.Dst).Inc()
				logger.Info("wizard transition",
					zap.String("session_id", sessionID),
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
}
