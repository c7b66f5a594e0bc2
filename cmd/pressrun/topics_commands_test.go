package main

import (
	"path/filepath"
	"testing"
)

func TestTopicsValidateReportsRows(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "topics.csv")
	writeTopicsCSV(t, path,
		"How to Grow Tomatoes,tomato care,watering,home gardeners,friendly,100",
		",missing topic,x,y,z,100",
	)

	out, _, err := runCLI(t, []string{"topics", "validate", path}, "")
	if err != nil {
		t.Fatalf("topics validate: %v", err)
	}
	requireContains(t, out, "1 valid topics")
	requireContains(t, out, "Row 3")
	requireContains(t, out, "1 rows would be skipped")
}

func TestTopicsValidateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")
	_, _, err := runCLI(t, []string{"topics", "validate", path}, "")
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestTopicsSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")

	out, _, err := runCLI(t, []string{"topics", "sample", path}, "")
	if err != nil {
		t.Fatalf("topics sample: %v", err)
	}
	requireContains(t, out, "Wrote sample topics file")

	out, _, err = runCLI(t, []string{"topics", "validate", path}, "")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "valid topics")
}

func TestTopicsSampleXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	if _, _, err := runCLI(t, []string{"topics", "sample", path}, ""); err != nil {
		t.Fatalf("topics sample xlsx: %v", err)
	}

	out, _, err := runCLI(t, []string{"topics", "validate", path}, "")
	if err != nil {
		t.Fatalf("validate xlsx sample: %v", err)
	}
	requireContains(t, out, "valid topics")
}
