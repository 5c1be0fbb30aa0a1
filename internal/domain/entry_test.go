package domain

import "testing"

func TestIsImageExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".JPEG", true},
		{".png", true},
		{".webp", true},
		{".heic", true},
		{".txt", false},
		{".mp4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsImageExtension(tt.ext); got != tt.want {
			t.Fatalf("IsImageExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".png", "image/png"},
		{".webp", "image/webp"},
		{".jpg", "image/jpeg"},
		{".JPEG", "image/jpeg"},
		{".xyz", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := MIMEType(tt.ext); got != tt.want {
			t.Fatalf("MIMEType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestTargetKeyIsCaseInsensitive(t *testing.T) {
	a := PlannedEntry{Entry: Entry{Ext: ".JPG"}, NewName: "Beach"}
	b := PlannedEntry{Entry: Entry{Ext: ".jpg"}, NewName: "beach"}
	if a.TargetKey() != b.TargetKey() {
		t.Fatalf("keys differ: %q vs %q", a.TargetKey(), b.TargetKey())
	}
	if a.TargetName() == b.TargetName() {
		t.Fatalf("target names should keep their original casing")
	}
}

func TestPlanCounts(t *testing.T) {
	plan := RenamePlan{Entries: []PlannedEntry{
		{Status: StatusPending},
		{Status: StatusSuccess},
		{Status: StatusSuccess},
		{Status: StatusError},
		{Status: StatusSkipped},
	}}
	counts := plan.Counts()
	if counts.Pending != 1 || counts.Success != 2 || counts.Error != 1 || counts.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestChangedIgnoresIdentityRenames(t *testing.T) {
	plan := RenamePlan{Entries: []PlannedEntry{
		{Entry: Entry{Ext: ".jpg", Path: "same.jpg"}, NewName: "same"},
		{Entry: Entry{Ext: ".jpg", Path: "old.jpg"}, NewName: "new"},
	}}
	if got := plan.Changed(); got != 1 {
		t.Fatalf("Changed() = %d, want 1", got)
	}
}
