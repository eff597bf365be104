package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"guidewizard/models"

	"github.com/goccy/go-json"
)

// RegisterGuide submits the finalized draft.
func (c *DefaultGuideAPIClient) RegisterGuide(ctx context.Context, draft models.Guide, creds models.Credentials) error {
	return c.postJSON(ctx, "register_guide", "/guide/register", draft, &creds, nil)
}

// UploadProfilePicture sends image as the multipart field "image".
func (c *DefaultGuideAPIClient) UploadProfilePicture(ctx context.Context, image models.Document, creds models.Credentials) error {
	const op = "upload_profile_picture"
	body, contentType, err := buildMultipart(map[string]models.Document{"image": image}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        "/guide/profile-picture",
		body:        body,
		contentType: contentType,
		creds:       &creds,
	}, nil)
}

// SubmitKYC sends the four identity documents and the JSON-encoded bank account in one request.
func (c *DefaultGuideAPIClient) SubmitKYC(ctx context.Context, bundle models.KYCBundle, creds models.Credentials) error {
	const op = "submit_kyc"
	bank, err := json.Marshal(bundle.BankAccount)
	if err != nil {
		return fmt.Errorf("%s: encode bank_account: %w", op, err)
	}
	files := map[string]models.Document{
		"aadhaar_front": bundle.AadhaarFront,
		"aadhaar_back":  bundle.AadhaarBack,
		"pan_front":     bundle.PanFront,
		"pan_back":      bundle.PanBack,
	}
	body, contentType, err := buildMultipart(files, map[string]string{"bank_account": string(bank)})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        "/guide/kyc/submit",
		body:        body,
		contentType: contentType,
		creds:       &creds,
	}, nil)
}

// multipartFieldOrder keeps request bodies deterministic.
var multipartFieldOrder = []string{"image", "aadhaar_front", "aadhaar_back", "pan_front", "pan_back"}

func buildMultipart(files map[string]models.Document, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range multipartFieldOrder {
		doc, ok := files[name]
		if !ok {
			continue
		}
		if err := writeFilePart(w, name, doc); err != nil {
			return nil, "", err
		}
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field string, doc models.Document) error {
	filename := doc.Filename
	if filename == "" {
		filename = field
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return fmt.Errorf("write part %s: %w", field, err)
	}
	return nil
}
