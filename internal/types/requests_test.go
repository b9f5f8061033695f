//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreateSampleRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateSampleRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: CreateSampleRequest{JobDescription: "Data Scientist", Resume: "Nurse", Score: floatPtr(42)},
		},
		{
			name:    "valid request without score",
			request: CreateSampleRequest{JobDescription: "Data Scientist", Resume: "Nurse"},
		},
		{
			name:    "score of zero is allowed",
			request: CreateSampleRequest{JobDescription: "a", Resume: "b", Score: floatPtr(0)},
		},
		{
			name:    "missing job description",
			request: CreateSampleRequest{Resume: "Nurse"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "missing resume",
			request: CreateSampleRequest{JobDescription: "Data Scientist"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "score above range",
			request: CreateSampleRequest{JobDescription: "a", Resume: "b", Score: floatPtr(101)},
			wantErr: true,
			errMsg:  "max",
		},
		{
			name:    "negative score",
			request: CreateSampleRequest{JobDescription: "a", Resume: "b", Score: floatPtr(-1)},
			wantErr: true,
			errMsg:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeywordsRequest_Validation(t *testing.T) {
	assert.NoError(t, (&KeywordsRequest{Text: "python"}).Validate())
	assert.NoError(t, (&KeywordsRequest{Text: "python", Limit: 200}).Validate())
	assert.Error(t, (&KeywordsRequest{Text: "python", Limit: 201}).Validate())
	assert.Error(t, (&KeywordsRequest{Text: "python", Limit: -1}).Validate())
}

func TestTextLimits(t *testing.T) {
	long := strings.Repeat("a", MaxTextLength+1)

	assert.Error(t, (&TextRequest{Text: long}).Validate())
	assert.Error(t, (&FeaturesRequest{JobDescription: long}).Validate())
	assert.NoError(t, (&FeaturesRequest{}).Validate(), "empty texts are valid inputs")
}

func TestSample_JSON(t *testing.T) {
	id := uuid.New()
	sample := Sample{ID: id, JobDescription: "jd", Resume: "cv", Score: floatPtr(87.5)}

	data, err := json.Marshal(sample)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"relevance_score":87.5`)

	var decoded Sample
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)
	assert.True(t, decoded.HasLabel())

	unlabeled := Sample{JobDescription: "jd"}
	assert.False(t, unlabeled.HasLabel())
}
