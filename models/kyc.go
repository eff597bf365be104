package models

// Document is an uploaded image held fully in memory.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-" validate:"required,min=1"`
}

// BankAccount is sent as the JSON-encoded bank_account field of the KYC submission.
type BankAccount struct {
	HolderName    string `json:"holder_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	IFSC          string `json:"ifsc" validate:"required,max=11"`
	BankName      string `json:"bank_name" validate:"required"`
	Branch        string `json:"branch" validate:"required"`
}

// KYCBundle is submitted once, at step 4, as a single multipart request.
type KYCBundle struct {
	AadhaarFront Document    `json:"aadhaar_front"`
	AadhaarBack  Document    `json:"aadhaar_back"`
	PanFront     Document    `json:"pan_front"`
	PanBack      Document    `json:"pan_back"`
	BankAccount  BankAccount `json:"bank_account"`
}
