package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeJSON_TopLevelMustBeArray(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"name":"A","email":"a@x.com"}`))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected malformed-input error, got %v", err)
	}
}

func TestDecodeJSON_BadSyntax(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`[{"name": "A"`))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected malformed-input error, got %v", err)
	}
}

func TestDecodeJSON_KeepsRowPositions(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[{"name":"A"}, "not an object", {"name":"B"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("non-object elements still occupy their row, got %d records", len(records))
	}
	if records[0]["name"] != "A" || records[2]["name"] != "B" {
		t.Fatalf("unexpected records %+v", records)
	}
	if len(records[1]) != 0 {
		t.Fatalf("non-object element should decode to an empty record, got %+v", records[1])
	}
}

func TestDecodeCSV_HeaderKeyedRecords(t *testing.T) {
	csvData := `name,email,organization,topicsOfInterest
Ada, ada@x.com ,Umbrella,"api design, betas"
Bert,bert@x.com,Lion,
`
	records, err := DecodeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["email"] != "ada@x.com" {
		t.Fatalf("values should be trimmed, got %q", records[0]["email"])
	}
	if records[0]["topicsOfInterest"] != "api design, betas" {
		t.Fatalf("unexpected topics cell %q", records[0]["topicsOfInterest"])
	}
	if records[1]["topicsOfInterest"] != "" {
		t.Fatalf("empty cell should decode to empty string, got %q", records[1]["topicsOfInterest"])
	}
}

func TestDecodeCSV_ToleratesRaggedRows(t *testing.T) {
	csvData := "name,email,organization\nAda,ada@x.com\n"
	records, err := DecodeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := records[0]["organization"]; ok {
		t.Fatalf("short row should simply omit trailing keys, got %+v", records[0])
	}
}

func TestDecodeCSV_EmptyFile(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestParseDate_Formats(t *testing.T) {
	for _, raw := range []string{"2025-03-01", "2025/03/01", "2025-03-01T10:30:00Z", "2025-03-01 10:30:00"} {
		if _, err := ParseDate(raw); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if _, err := ParseDate("next tuesday"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
