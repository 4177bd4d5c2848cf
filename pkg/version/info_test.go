package version

import (
	"strings"
	"testing"
	"time"
)

func TestCurrent_Defaults(t *testing.T) {
	info := Current("dieselhub")
	if info.Service != "dieselhub" {
		t.Fatalf("service = %q", info.Service)
	}
	if info.Version != DevelopmentVersion {
		t.Fatalf("version = %q", info.Version)
	}
	if info.Commit != Unknown || info.BuildTime != Unknown {
		t.Fatalf("unexpected metadata: %+v", info)
	}
}

func TestCurrent_BlankServiceFallsBack(t *testing.T) {
	info := Current("  ")
	if info.Service != Unknown {
		t.Fatalf("service = %q", info.Service)
	}
}

func TestParseBuildTime(t *testing.T) {
	info := Info{BuildTime: "2025-03-01T09:00:00Z"}
	ts, ok := info.ParseBuildTime()
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if !ts.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("parsed = %v", ts)
	}

	for _, raw := range []string{"", Unknown, "yesterday"} {
		if _, ok := (Info{BuildTime: raw}).ParseBuildTime(); ok {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}

func TestInfo_String(t *testing.T) {
	s := Info{Service: "dieselhub", Version: "v1.0.0", Commit: "abc123", BuildTime: Unknown}.String()
	if !strings.Contains(s, "dieselhub@v1.0.0") || !strings.Contains(s, "commit=abc123") {
		t.Fatalf("string = %q", s)
	}
}
