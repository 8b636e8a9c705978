// Package artifacts loads the serving artifacts produced by training (feature
// schema, category encodings, scaler and classifier) into one immutable
// Bundle.
//
// An artifacts directory holds three files. manifest.yaml is the entry point:
//
//	version: rf-2024-06-01          # free-form label reported by /health
//	feature_columns:                # classifier input order
//	  - age
//	  - weight
//	  # ... one entry per feature, each a name from features.DefaultColumns
//	encoders:                       # sorted class lists; code = index
//	  fitness_level: [HIGH, LOW, MEDIUM]
//	  gender: [FEMALE, MALE]
//	scaler: scaler.json             # paths relative to the manifest
//	model: model.json
//
// scaler.json carries the fitted standardization, one entry per feature
// column in the same order. Each scaled value is (x - mean) / scale:
//
//	{"mean": [40, 70, ...], "scale": [13, 12, ...]}
//
// model.json is a classifier artifact; see package classifier for the
// supported model formats.
//
// Cached probabilities are keyed by Bundle.Fingerprint, a hash of all three
// files' content, so the version label is not required to be unique.
package artifacts
