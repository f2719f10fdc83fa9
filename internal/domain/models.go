package domain

import "errors"

// PromptVariant selects which instruction template drives generation
// and how the resulting draft is labeled.
type PromptVariant string

const (
	VariantClinical        PromptVariant = "clinical"
	VariantPatientFriendly PromptVariant = "patient-friendly"
)

// IsClinical reports whether the draft was produced for a clinical audience.
func (v PromptVariant) IsClinical() bool {
	return v == VariantClinical
}

// Draft is the current discharge summary held for a session. Content is
// HTML; each generation or edit overwrites it wholesale, no history is kept.
type Draft struct {
	Content string        `json:"content"`
	Variant PromptVariant `json:"variant"`
}

var (
	// ErrNoDraft means the session holds no summary, or it expired.
	ErrNoDraft = errors.New("no draft summary available")

	// ErrNoPages means no document has been uploaded in this session.
	ErrNoPages = errors.New("no document pages available")
)
