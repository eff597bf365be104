package wizard

import (
	"context"
	"errors"
	"fmt"

	"guidewizard/models"
	"guidewizard/services/gateway"
	"guidewizard/services/session"
	"guidewizard/utils"

	"github.com/EagleChen/mapmutex"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the step controller of the guide registration wizard. Every method that takes a
// session id runs under that session's lock and either advances the session or leaves it as it was.
type Service interface {
	Start(ctx context.Context) (*models.WizardSession, error)
	Load(ctx context.Context, sessionID string) (*models.WizardSession, error)
	View(sess *models.WizardSession) StepView

	SubmitPhone(ctx context.Context, sessionID, phone string) (*models.WizardSession, error)
	SubmitBasicInfo(ctx context.Context, sessionID string, in BasicInfoInput) (*models.WizardSession, error)
	UploadPicture(ctx context.Context, sessionID string, image models.Document) (*PictureResult, error)
	Continue(ctx context.Context, sessionID string) (*models.WizardSession, error)
	SubmitKYC(ctx context.Context, sessionID string, in KYCInput) (*models.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Restart(ctx context.Context, sessionID string) (*models.WizardSession, error)
	End(ctx context.Context, sessionID string) error
}

// PictureResult reports a best-effort profile picture upload. A failed upload is a warning,
// never an error, and never moves the session.
type PictureResult struct {
	Session  *models.WizardSession
	Uploaded bool
	Warning  string
}

// DefaultWizardService implements Service.
type DefaultWizardService struct {
	API    gateway.GuideAPI
	Store  session.Store
	Logger *zap.Logger

	locks *mapmutex.Mutex
	newID func() string
}

// NewWizardService wires a wizard over api and store.
func NewWizardService(api gateway.GuideAPI, store session.Store, logger *zap.Logger) *DefaultWizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultWizardService{
		API:    api,
		Store:  store,
		Logger: logger,
		locks:  mapmutex.NewMapMutex(),
		newID:  uuid.NewString,
	}
}

// Start creates a fresh session at phone verification.
func (s *DefaultWizardService) Start(ctx context.Context) (*models.WizardSession, error) {
	sess := models.NewWizardSession(s.newID())
	if err := s.Store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start wizard session: %w", err)
	}
	s.Logger.Info("wizard session started", zap.String("session_id", sess.ID))
	return sess, nil
}

// Load returns the stored session.
func (s *DefaultWizardService) Load(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// SubmitPhone generates and validates an OTP for phone, then fetches the reference lists once.
func (s *DefaultWizardService) SubmitPhone(ctx context.Context, sessionID, phone string) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventVerifyPhone, func(sess *models.WizardSession) error {
		// Validated as entered; padded input is rejected rather than trimmed.
		if !validPhone(phone) {
			return fieldError("phone_number", "enter a valid 10-digit phone number")
		}

		otpRequestID, err := s.API.RequestOTP(ctx, phone)
		if err != nil {
			return err
		}
		creds, err := s.API.VerifyOTP(ctx, phone, otpRequestID)
		if err != nil {
			return err
		}
		languages := s.API.FetchReferenceList(ctx, gateway.Languages, creds)
		skills := s.API.FetchReferenceList(ctx, gateway.Skills, creds)

		// A new verification starts a new guide; anything drafted for the old phone is dropped.
		sess.PhoneNumber = phone
		sess.AccessToken = creds.AccessToken
		sess.AuthUserID = creds.AuthUserID
		sess.Languages = languages
		sess.Skills = skills
		sess.GuideDraft = nil
		sess.PictureUploaded = false
		return nil
	})
}

// SubmitBasicInfo validates the step 2 form and registers the guide.
func (s *DefaultWizardService) SubmitBasicInfo(ctx context.Context, sessionID string, in BasicInfoInput) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventRegister, func(sess *models.WizardSession) error {
		draft, err := buildDraft(sess, in)
		if err != nil {
			return err
		}
		if err := s.API.RegisterGuide(ctx, draft, sess.Credentials()); err != nil {
			return err
		}
		sess.GuideDraft = &draft
		return nil
	})
}

// UploadPicture sends the profile picture. Only a missing image or a wrong step is an error.
func (s *DefaultWizardService) UploadPicture(ctx context.Context, sessionID string, image models.Document) (*PictureResult, error) {
	result := &PictureResult{}
	sess, err := s.locked(ctx, sessionID, func(sess *models.WizardSession) error {
		if sess.CurrentStep != models.StepProfilePicture {
			s.reject("upload_picture", ErrInvalidTransition)
			return fmt.Errorf("%w: upload_picture from %s", ErrInvalidTransition, sess.CurrentStep)
		}
		if len(image.Data) == 0 {
			err := fieldError("image", "is required")
			s.reject("upload_picture", err)
			return err
		}
		if err := s.API.UploadProfilePicture(ctx, image, sess.Credentials()); err != nil {
			s.reject("upload_picture", err)
			s.Logger.Warn("profile picture upload failed",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			result.Warning = err.Error()
			return nil
		}
		result.Uploaded = true
		sess.PictureUploaded = true
		return s.Store.Save(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	result.Session = sess
	return result, nil
}

// Continue leaves the profile picture step whether or not a picture was uploaded.
func (s *DefaultWizardService) Continue(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventContinue, nil)
}

// SubmitKYC validates the documents and bank details and submits them in one request.
func (s *DefaultWizardService) SubmitKYC(ctx context.Context, sessionID string, in KYCInput) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventSubmitKYC, func(sess *models.WizardSession) error {
		bundle, err := buildKYCBundle(sess, in)
		if err != nil {
			return err
		}
		return s.API.SubmitKYC(ctx, bundle, sess.Credentials())
	})
}

// Back returns to the previous step. Data already entered is kept.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventBack, nil)
}

// Restart clears the finished session so another guide can be registered.
func (s *DefaultWizardService) Restart(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.fire(ctx, sessionID, EventRestart, func(sess *models.WizardSession) error {
		sess.Reset()
		return nil
	})
}

// End discards the session. Its token stops resolving immediately.
func (s *DefaultWizardService) End(ctx context.Context, sessionID string) error {
	_, err := s.locked(ctx, sessionID, func(sess *models.WizardSession) error {
		if err := s.Store.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("end wizard session: %w", err)
		}
		s.Logger.Info("wizard session ended",
			zap.String("session_id", sess.ID),
			zap.String("step", sess.CurrentStep.String()),
		)
		return nil
	})
	return err
}

// fire runs gate for event and, if it passes, moves the session and saves it.
// gate must only write to the session once every check and call has succeeded.
func (s *DefaultWizardService) fire(ctx context.Context, sessionID, event string, gate func(*models.WizardSession) error) (*models.WizardSession, error) {
	return s.locked(ctx, sessionID, func(sess *models.WizardSession) error {
		m := newMachine(sess.ID, sess.CurrentStep, s.Logger)
		if !m.Can(event) {
			s.reject(event, ErrInvalidTransition)
			return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, m.Current())
		}
		if gate != nil {
			if err := gate(sess); err != nil {
				s.reject(event, err)
				return err
			}
		}
		if err := m.Event(ctx, event); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		sess.CurrentStep = models.ParseStep(m.Current())
		return s.Store.Save(ctx, sess)
	})
}

// locked loads the session under its lock and hands it to fn.
func (s *DefaultWizardService) locked(ctx context.Context, sessionID string, fn func(*models.WizardSession) error) (*models.WizardSession, error) {
	if !s.locks.TryLock(sessionID) {
		return nil, ErrSessionBusy
	}
	defer s.locks.Unlock(sessionID)

	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *DefaultWizardService) reject(event string, err error) {
	var verr *ValidationError
	reason := "error"
	switch {
	case errors.As(err, &verr):
		reason = "validation"
	case errors.Is(err, ErrInvalidTransition):
		reason = "invalid_transition"
	case gateway.IsUpstream(err):
		reason = "upstream"
	}
	utils.WizardRejections.WithLabelValues(event, reason).Inc()
}
