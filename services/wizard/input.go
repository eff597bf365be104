package wizard

import (
	"fmt"
	"reflect"
	"strings"

	"guidewizard/models"

	"github.com/go-playground/validator/v10"
)

const (
	defaultCountry           = "India"
	defaultYearsOfExperience = 5
	phoneDigits              = 10
)

// BasicInfoInput is what the operator enters at step 2.
type BasicInfoInput struct {
	FullName          string         `json:"full_name" validate:"required"`
	Email             string         `json:"email" validate:"required"`
	Bio               string         `json:"bio" validate:"required"`
	YearsOfExperience *int           `json:"years_of_experience" validate:"omitempty,gte=0,lte=50"`
	Languages         []int          `json:"languages" validate:"required,min=1"`
	Skills            []int          `json:"skills" validate:"required,min=1"`
	Address           models.Address `json:"address"`
}

// KYCInput is what the operator uploads and enters at step 4.
type KYCInput struct {
	AadhaarFront *models.Document   `json:"aadhaar_front" validate:"required"`
	AadhaarBack  *models.Document   `json:"aadhaar_back" validate:"required"`
	PanFront     *models.Document   `json:"pan_front" validate:"required"`
	PanBack      *models.Document   `json:"pan_back" validate:"required"`
	BankAccount  models.BankAccount `json:"bank_account"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags and converts failures into a ValidationError keyed by
// the JSON path of each field, e.g. "address.pincode".
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	// An empty document is reported under the document's own name.
	if fe.StructField() == "Data" {
		ns = strings.TrimSuffix(ns, "."+fe.Field())
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("select at least %s", fe.Param())
		}
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte", "lte":
		return "must be between 0 and 50"
	default:
		return "is invalid"
	}
}

func trimAll(in *BasicInfoInput) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Address.Line1 = strings.TrimSpace(in.Address.Line1)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.State = strings.TrimSpace(in.Address.State)
	in.Address.Pincode = strings.TrimSpace(in.Address.Pincode)
	in.Address.Country = strings.TrimSpace(in.Address.Country)
}

// validPhone accepts exactly ten ASCII digits.
func validPhone(phone string) bool {
	if len(phone) != phoneDigits {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildDraft validates the step 2 input against the session's reference lists and returns the
// guide draft to register.
func buildDraft(sess *models.WizardSession, in BasicInfoInput) (models.Guide, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return models.Guide{}, err
	}
	if err := checkSelection("languages", in.Languages, sess.Languages); err != nil {
		return models.Guide{}, err
	}
	if err := checkSelection("skills", in.Skills, sess.Skills); err != nil {
		return models.Guide{}, err
	}

	years := defaultYearsOfExperience
	if in.YearsOfExperience != nil {
		years = *in.YearsOfExperience
	}
	address := in.Address
	if address.Country == "" {
		address.Country = defaultCountry
	}
	return models.Guide{
		FullName:          in.FullName,
		Phone:             sess.PhoneNumber,
		Email:             in.Email,
		Bio:               in.Bio,
		Address:           address,
		Languages:         dedupe(in.Languages),
		Skills:            dedupe(in.Skills),
		YearsOfExperience: years,
	}, nil
}

// checkSelection rejects ids that are not in the list offered to the operator.
func checkSelection(field string, ids []int, offered []models.ReferenceItem) error {
	known := make(map[int]bool, len(offered))
	for _, item := range offered {
		known[item.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fieldError(field, fmt.Sprintf("unknown id %d", id))
		}
	}
	return nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// buildKYCBundle validates the step 4 input. An empty holder name defaults to the draft's full name.
func buildKYCBundle(sess *models.WizardSession, in KYCInput) (models.KYCBundle, error) {
	bank := in.BankAccount
	bank.HolderName = strings.TrimSpace(bank.HolderName)
	bank.AccountNumber = strings.TrimSpace(bank.AccountNumber)
	bank.IFSC = strings.TrimSpace(bank.IFSC)
	bank.BankName = strings.TrimSpace(bank.BankName)
	bank.Branch = strings.TrimSpace(bank.Branch)
	if bank.HolderName == "" && sess.GuideDraft != nil {
		bank.HolderName = sess.GuideDraft.FullName
	}
	in.BankAccount = bank

	if err := validateStruct(in); err != nil {
		return models.KYCBundle{}, err
	}
	return models.KYCBundle{
		AadhaarFront: *in.AadhaarFront,
		AadhaarBack:  *in.AadhaarBack,
		PanFront:     *in.PanFront,
		PanBack:      *in.PanBack,
		BankAccount:  bank,
	}, nil
}
