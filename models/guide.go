package models

// Address is the postal address captured in the basic-info step.
type Address struct {
	Line1   string `json:"line1" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,max=6"`
	Country string `json:"country"`
}

// Guide is the registration payload sent to POST /guide/register.
// It is assembled incrementally by the wizard and finalized at the end of step 2.
type Guide struct {
	FullName          string  `json:"full_name"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	Bio               string  `json:"bio"`
	Address           Address `json:"address"`
	Languages         []int   `json:"languages"`
	Skills            []int   `json:"skills"`
	YearsOfExperience int     `json:"years_of_experience"`
}

// ReferenceItem is one entry of the languages or skills lists.
type ReferenceItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credentials authenticate every call made after OTP validation.
type Credentials struct {
	AccessToken string `json:"access_token"`
	AuthUserID  string `json:"auth_user_id"`
}
