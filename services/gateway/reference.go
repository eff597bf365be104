package gateway

import (
	"context"
	"net/http"

	"guidewizard/models"

	"go.uber.org/zap"
)

// DefaultLanguages is used whenever GET /guide/languages fails.
var DefaultLanguages = []models.ReferenceItem{
	{ID: 1, Name: "Hindi"},
	{ID: 2, Name: "English"},
	{ID: 3, Name: "Bengali"},
	{ID: 4, Name: "Tamil"},
	{ID: 5, Name: "Telugu"},
	{ID: 6, Name: "Marathi"},
}

// DefaultSkills is used whenever GET /guide/skills fails.
var DefaultSkills = []models.ReferenceItem{
	{ID: 1, Name: "Vedic Astrology"},
	{ID: 2, Name: "Tarot Reading"},
	{ID: 3, Name: "Numerology"},
	{ID: 4, Name: "Palmistry"},
	{ID: 5, Name: "Vastu"},
	{ID: 6, Name: "Face Reading"},
}

// DefaultReferenceList returns a copy of the built-in list for kind.
func DefaultReferenceList(kind ReferenceKind) []models.ReferenceItem {
	src := DefaultLanguages
	if kind == Skills {
		src = DefaultSkills
	}
	out := make([]models.ReferenceItem, len(src))
	copy(out, src)
	return out
}

type referenceResponse struct {
	Languages []models.ReferenceItem `json:"languages"`
	Skills    []models.ReferenceItem `json:"skills"`
}

// FetchReferenceList returns the upstream languages or skills. Any failure, including an empty
// list, is logged and answered with the built-in list so the wizard is never blocked.
func (c *DefaultGuideAPIClient) FetchReferenceList(ctx context.Context, kind ReferenceKind, creds models.Credentials) []models.ReferenceItem {
	op := "fetch_" + string(kind)
	var resp referenceResponse
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/guide/" + string(kind),
		creds:  &creds,
	}, &resp)
	if err != nil {
		c.logger.Warn("reference list unavailable, using defaults", zap.String("kind", string(kind)), zap.Error(err))
		return DefaultReferenceList(kind)
	}

	items := resp.Languages
	if kind == Skills {
		items = resp.Skills
	}
	if len(items) == 0 {
		c.logger.Warn("reference list empty, using defaults", zap.String("kind", string(kind)))
		return DefaultReferenceList(kind)
	}
	return items
}
