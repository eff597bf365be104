package wizard

import (
	"sort"

	"guidewizard/models"
)

// Summary is shown once registration is complete.
type Summary struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// StepView is everything a client needs to render the current step.
type StepView struct {
	Step            int                    `json:"step"`
	Name            string                 `json:"name"`
	Title           string                 `json:"title"`
	Fields          []string               `json:"fields,omitempty"`
	Languages       []models.ReferenceItem `json:"languages,omitempty"`
	Skills          []models.ReferenceItem `json:"skills,omitempty"`
	Defaults        map[string]interface{} `json:"defaults,omitempty"`
	PictureUploaded bool                   `json:"picture_uploaded,omitempty"`
	Summary         *Summary               `json:"summary,omitempty"`
	Actions         []string               `json:"actions"`
	CanGoBack       bool                   `json:"can_go_back"`
}

var stepTitles = map[models.Step]string{
	models.StepPhoneVerification: "Step 1: Phone Verification",
	models.StepBasicInfo:         "Step 2: Basic Information",
	models.StepProfilePicture:    "Step 3: Profile Picture",
	models.StepKYC:               "Step 4: KYC Documents",
	models.StepSuccess:           "Guide Registration Completed Successfully!",
}

var stepFields = map[models.Step][]string{
	models.StepPhoneVerification: {"phone_number"},
	models.StepBasicInfo: {
		"full_name", "email", "bio", "years_of_experience", "languages", "skills",
		"address.line1", "address.city", "address.state", "address.pincode", "address.country",
	},
	models.StepProfilePicture: {"image"},
	models.StepKYC: {
		"aadhaar_front", "aadhaar_back", "pan_front", "pan_back",
		"bank_account.holder_name", "bank_account.account_number", "bank_account.ifsc",
		"bank_account.bank_name", "bank_account.branch",
	},
}

// View renders sess as the step it is on.
func (s *DefaultWizardService) View(sess *models.WizardSession) StepView {
	m := newMachine(sess.ID, sess.CurrentStep, s.Logger)

	actions := m.AvailableTransitions()
	if sess.CurrentStep == models.StepProfilePicture {
		actions = append(actions, "upload_picture")
	}
	sort.Strings(actions)

	view := StepView{
		Step:      int(sess.CurrentStep),
		Name:      sess.CurrentStep.String(),
		Title:     stepTitles[sess.CurrentStep],
		Fields:    stepFields[sess.CurrentStep],
		Actions:   actions,
		CanGoBack: m.Can(EventBack),
	}

	switch sess.CurrentStep {
	case models.StepBasicInfo:
		view.Languages = sess.Languages
		view.Skills = sess.Skills
		defaults := map[string]interface{}{
			"years_of_experience": defaultYearsOfExperience,
			"address.country":     defaultCountry,
		}
		if len(sess.Languages) > 0 {
			defaults["languages"] = []int{sess.Languages[0].ID}
		}
		if len(sess.Skills) > 0 {
			defaults["skills"] = []int{sess.Skills[0].ID}
		}
		view.Defaults = defaults
	case models.StepProfilePicture:
		view.PictureUploaded = sess.PictureUploaded
	case models.StepKYC:
		if sess.GuideDraft != nil {
			view.Defaults = map[string]interface{}{
				"bank_account.holder_name": sess.GuideDraft.FullName,
			}
		}
	case models.StepSuccess:
		summary := &Summary{Phone: sess.PhoneNumber}
		if sess.GuideDraft != nil {
			summary.FullName = sess.GuideDraft.FullName
			summary.Email = sess.GuideDraft.Email
		}
		view.Summary = summary
	}
	return view
}
