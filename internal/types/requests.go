package types

import (
	"github.com/go-playground/validator/v10"
)

// MaxTextLength bounds any single text accepted by the API.
const MaxTextLength = 200000

// TextRequest carries a single text to normalize or analyze.
type TextRequest struct {
	Text string `json:"text" validate:"max=200000"`
}

// KeywordsRequest asks for the top keywords of a text.
type KeywordsRequest struct {
	Text  string `json:"text" validate:"max=200000"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
}

// FeaturesRequest asks for the feature vector of a document pair.
type FeaturesRequest struct {
	JobDescription string `json:"job_description" validate:"max=200000"`
	Resume         string `json:"resume" validate:"max=200000"`
}

// CreateSampleRequest stores a new document pair.
type CreateSampleRequest struct {
	JobDescription string   `json:"job_description" validate:"required,max=200000"`
	Resume         string   `json:"resume" validate:"required,max=200000"`
	Score          *float64 `json:"relevance_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// Validate validates the TextRequest using the validator.
func (r *TextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the KeywordsRequest using the validator.
func (r *KeywordsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the FeaturesRequest using the validator.
func (r *FeaturesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateSampleRequest using the validator.
func (r *CreateSampleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
