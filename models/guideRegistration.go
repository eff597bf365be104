package models

import (
	"errors"
	"time"
)

// Step is a position in the registration wizard.
type Step int

const (
	StepPhoneVerification Step = iota + 1
	StepBasicInfo
	StepProfilePicture
	StepKYC
	StepSuccess
)

var stepNames = map[Step]string{
	StepPhoneVerification: "phone_verification",
	StepBasicInfo:         "basic_info",
	StepProfilePicture:    "profile_picture",
	StepKYC:               "kyc",
	StepSuccess:           "success",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep maps a step name back to its Step. It returns 0 for unknown names.
func ParseStep(name string) Step {
	for step, n := range stepNames {
		if n == name {
			return step
		}
	}
	return 0
}

var (
	ErrSessionUnauthenticated = errors.New("session has no access token")
	ErrSessionMissingDraft    = errors.New("session has no guide draft")
	ErrSessionInvalidStep     = errors.New("session step out of range")
)

// WizardSession is the per-operator record of registration progress.
// It is mutated only by the wizard service and discarded on restart or expiry.
type WizardSession struct {
	ID              string          `json:"id"`
	CurrentStep     Step            `json:"current_step"`
	PhoneNumber     string          `json:"phone_number,omitempty"`
	AccessToken     string          `json:"access_token,omitempty"`
	AuthUserID      string          `json:"auth_user_id,omitempty"`
	Languages       []ReferenceItem `json:"languages,omitempty"`
	Skills          []ReferenceItem `json:"skills,omitempty"`
	GuideDraft      *Guide          `json:"guide_draft,omitempty"`
	PictureUploaded bool            `json:"picture_uploaded,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewWizardSession returns a session positioned at phone verification.
func NewWizardSession(id string) *WizardSession {
	now := time.Now()
	return &WizardSession{
		ID:          id,
		CurrentStep: StepPhoneVerification,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Credentials returns the upstream credentials held by the session.
func (s *WizardSession) Credentials() Credentials {
	return Credentials{AccessToken: s.AccessToken, AuthUserID: s.AuthUserID}
}

// Authenticated reports whether OTP validation has completed.
func (s *WizardSession) Authenticated() bool {
	return s.AccessToken != ""
}

// Validate checks the field-level invariants of the current step.
func (s *WizardSession) Validate() error {
	if s.CurrentStep < StepPhoneVerification || s.CurrentStep > StepSuccess {
		return ErrSessionInvalidStep
	}
	if s.CurrentStep >= StepBasicInfo && !s.Authenticated() {
		return ErrSessionUnauthenticated
	}
	if s.CurrentStep >= StepKYC && s.GuideDraft == nil {
		return ErrSessionMissingDraft
	}
	return nil
}

// Reset clears every field except the identity of the session and returns it to step 1.
func (s *WizardSession) Reset() {
	*s = WizardSession{
		ID:          s.ID,
		CurrentStep: StepPhoneVerification,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   time.Now(),
	}
}
