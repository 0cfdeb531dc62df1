// Package codec turns a consent record into the ASCII-safe string persisted
// in the consent cookie and back. The wire format — base64 of compact JSON —
// is shared with the client runtime, which writes the same encoding
// optimistically before the server round trip completes.
package codec

import (
	"encoding/base64"
	"encoding/json"

	"cookiegate/internal/consent/models"
	dErrors "cookiegate/pkg/domain-errors"
)

// Encode serializes a record to its cookie value.
func Encode(record *models.Record) (string, error) {
	if record == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "record is required")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "encode consent record", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a cookie value back into a record. It tolerates corrupt or
// foreign input: any failure — invalid base64, invalid JSON, well-formed JSON
// that is not an object — yields nil, which callers treat as "no consent yet".
// Category keys are not whitelisted here; normalization is the manager's job.
func Decode(value string) *models.Record {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	// Reject JSON scalars, arrays, and null before unmarshaling into the
	// struct: json.Unmarshal errors on scalars and arrays, but null leaves the
	// probe map nil without complaint and must not survive as a zero-value
	// record either.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return nil
	}

	var record models.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil
	}
	return &record
}
