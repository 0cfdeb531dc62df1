package consentlog

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	dErrors "cookiegate/pkg/domain-errors"
)

// WriteCSV streams entries as CSV with a header row. Timestamps are RFC 3339.
func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	header := []string{"id", "consent_id", "ip_hash", "categories", "policy_version", "action_type", "user_agent", "device", "created_at"}
	if err := writer.Write(header); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "write csv header", err)
	}
	for _, e := range entries {
		row := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.ConsentID,
			e.IPHash,
			string(e.Categories),
			e.PolicyVersion,
			e.ActionType,
			e.UserAgent,
			e.Device,
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "write csv row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "flush csv", err)
	}
	return nil
}

type exportEntry struct {
	ID            uint            `json:"id"`
	ConsentID     string          `json:"consent_id"`
	IPHash        string          `json:"ip_hash"`
	Categories    json.RawMessage `json:"categories"`
	PolicyVersion string          `json:"policy_version"`
	ActionType    string          `json:"action_type"`
	UserAgent     string          `json:"user_agent"`
	Device        string          `json:"device"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WriteJSON streams entries as a JSON array with categories inlined as an
// object rather than a quoted string.
func WriteJSON(w io.Writer, entries []Entry) error {
	out := make([]exportEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, exportEntry{
			ID:            e.ID,
			ConsentID:     e.ConsentID,
			IPHash:        e.IPHash,
			Categories:    json.RawMessage(e.Categories),
			PolicyVersion: e.PolicyVersion,
			ActionType:    e.ActionType,
			UserAgent:     e.UserAgent,
			Device:        e.Device,
			CreatedAt:     e.CreatedAt,
		})
	}
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(out); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "encode json export", err)
	}
	return nil
}
