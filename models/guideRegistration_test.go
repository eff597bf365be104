package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepNames(t *testing.T) {
	for step := StepPhoneVerification; step <= StepSuccess; step++ {
		assert.Equal(t, step, ParseStep(step.String()))
	}
	assert.Equal(t, "unknown", Step(9).String())
	assert.Equal(t, Step(0), ParseStep("nope"))
}

func TestWizardSessionValidate(t *testing.T) {
	s := NewWizardSession("s1")
	assert.NoError(t, s.Validate())

	s.CurrentStep = StepBasicInfo
	assert.ErrorIs(t, s.Validate(), ErrSessionUnauthenticated)

	s.AccessToken = "tok"
	assert.NoError(t, s.Validate())

	s.CurrentStep = StepKYC
	assert.ErrorIs(t, s.Validate(), ErrSessionMissingDraft)

	s.GuideDraft = &Guide{FullName: "Asha"}
	assert.NoError(t, s.Validate())

	s.CurrentStep = 7
	assert.ErrorIs(t, s.Validate(), ErrSessionInvalidStep)
}

func TestWizardSessionReset(t *testing.T) {
	s := NewWizardSession("s1")
	created := s.CreatedAt
	s.CurrentStep = StepSuccess
	s.PhoneNumber = "9876543210"
	s.AccessToken = "tok"
	s.AuthUserID = "42"
	s.Languages = []ReferenceItem{{ID: 1, Name: "Hindi"}}
	s.Skills = []ReferenceItem{{ID: 1, Name: "Tarot Reading"}}
	s.GuideDraft = &Guide{FullName: "Asha", Email: "asha@example.com"}
	s.PictureUploaded = true

	s.Reset()

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, StepPhoneVerification, s.CurrentStep)
	assert.Empty(t, s.PhoneNumber)
	assert.Empty(t, s.AccessToken)
	assert.Empty(t, s.AuthUserID)
	assert.Nil(t, s.Languages)
	assert.Nil(t, s.Skills)
	assert.Nil(t, s.GuideDraft)
	assert.False(t, s.PictureUploaded)
	assert.Equal(t, Credentials{}, s.Credentials())
}
