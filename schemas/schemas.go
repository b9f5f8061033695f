// Package schemas bundles the JSON Schema documents for the files the
// relevance service reads and writes.
package schemas

import _ "embed"

// RelevanceDataset is the schema for JSON training datasets.
//
//go:embed relevance_dataset.schema.json
var RelevanceDataset string

// FeatureRow is the schema for a single JSON Lines feature row.
//
//go:embed feature_row.schema.json
var FeatureRow string
