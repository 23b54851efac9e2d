package ledger

import (
	"bytes"
	"civicconnect/backend/internal/models"
	"encoding/json"
	"strings"
)

// DecodeLedger parses a stored ledger. Absent, empty, null or malformed input all
// yield an empty sequence; decoding never fails. Inside a well-formed array, a
// record that does not decode is skipped and the rest are kept.
func DecodeLedger(raw string) []models.Complaint {
	records := []models.Complaint{}
	if strings.TrimSpace(raw) == "" {
		return records
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return records
	}
	for _, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var c models.Complaint
		if err := json.Unmarshal(elem, &c); err != nil {
			continue
		}
		records = append(records, c)
	}
	return records
}

// EncodeLedger serializes records in order as a JSON array. A nil sequence is
// written as an empty array so a stored ledger is never "null".
func EncodeLedger(records []models.Complaint) string {
	if records == nil {
		records = []models.Complaint{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Every field is a string or *string, so encoding cannot fail.
	_ = enc.Encode(records)
	return strings.TrimSuffix(buf.String(), "\n")
}
