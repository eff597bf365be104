package gateway

import (
	"context"

	"guidewizard/models"
)

// ReferenceKind selects which reference list to fetch.
type ReferenceKind string

const (
	Languages ReferenceKind = "languages"
	Skills    ReferenceKind = "skills"
)

// GuideAPI is the client side of the upstream guide registration API.
// Every method is one blocking round trip with no retry.
type GuideAPI interface {
	RequestOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, otpRequestID string) (models.Credentials, error)
	// FetchReferenceList never fails; it falls back to the built-in list.
	FetchReferenceList(ctx context.Context, kind ReferenceKind, creds models.Credentials) []models.ReferenceItem
	RegisterGuide(ctx context.Context, draft models.Guide, creds models.Credentials) error
	UploadProfilePicture(ctx context.Context, image models.Document, creds models.Credentials) error
	SubmitKYC(ctx context.Context, bundle models.KYCBundle, creds models.Credentials) error
}
