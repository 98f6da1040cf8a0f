package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMalformedInput marks batch-level decode failures. Per-record problems
// are reported in the summary instead and never abort the batch.
var ErrMalformedInput = errors.New("malformed input")

// Source identifies which upload encoding a batch of records came from.
// CSV rows carry only strings, so the validator accepts a few extra string
// spellings ("yes") that the JSON path does not.
type Source string

const (
	SourceJSON Source = "json"
	SourceCSV  Source = "csv"
)

// Record is one raw, loosely-typed record as decoded from an upload.
// Values are strings for CSV rows; JSON rows may also carry booleans,
// numbers, lists, or null.
type Record map[string]any

// DecodeJSON reads the whole payload and requires a top-level JSON array.
// Anything else is a batch-level malformed-input failure.
func DecodeJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be an array of objects", ErrMalformedInput)
	}

	records := make([]Record, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, Record(obj))
			continue
		}
		// A non-object element still occupies its row; the validator will
		// reject it with a missing-fields error.
		records = append(records, Record{})
	}
	return records, nil
}

// DecodeCSV drains the whole file into string-keyed records using the
// header row as the key set. The full drain happens before any record is
// processed so the import pipeline sees a fixed, ordered sequence.
func DecodeCSV(r io.Reader) ([]Record, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas

	headers, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var records []Record
	for {
		row, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		rec := make(Record, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			rec[h] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// stringField returns the record value as a string, or "" when absent or
// not text.
func stringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// boolField mirrors the loose truthiness of upload records: boolean true
// and the string "true" always count; "yes" counts only for CSV rows.
func boolField(rec Record, key string, src Source) bool {
	switch v := rec[key].(type) {
	case bool:
		return v
	case string:
		if v == "true" {
			return true
		}
		return src == SourceCSV && v == "yes"
	default:
		return false
	}
}

// listField accepts either an already-decoded list or a comma-delimited
// string, trimming each segment. Absent values become an empty list.
func listField(rec Record, key string) []string {
	switch v := rec[key].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return v
	default:
		return []string{}
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseDate accepts the handful of date spellings uploads actually use.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
