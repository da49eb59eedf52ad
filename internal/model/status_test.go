package model

import "testing"

func TestJobStatus_Rank(t *testing.T) {
	ordered := []JobStatus{StatusQueued, StatusStarting, StatusDownloading, StatusProcessing}

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("expected %s to rank above %s", ordered[i], ordered[i-1])
		}
	}

	if StatusCompleted.Rank() != StatusError.Rank() {
		t.Errorf("terminal states must share the highest rank, got %d and %d",
			StatusCompleted.Rank(), StatusError.Rank())
	}

	if StatusCompleted.Rank() <= StatusProcessing.Rank() {
		t.Error("terminal states must rank above processing")
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		expected bool
	}{
		{StatusQueued, false},
		{StatusStarting, false},
		{StatusDownloading, false},
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusError, true},
	}

	for _, test := range tests {
		if result := test.status.IsTerminal(); result != test.expected {
			t.Errorf("JobStatus(%s).IsTerminal() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestJobStatus_String(t *testing.T) {
	if StatusDownloading.String() != "downloading" {
		t.Errorf("JobStatus.String() = %s, expected downloading", StatusDownloading.String())
	}
}

func TestItemStatus_Rank(t *testing.T) {
	if ItemStatusDownloading.Rank() <= ItemStatusQueued.Rank() {
		t.Error("downloading must rank above queued")
	}
	if ItemStatusProcessing.Rank() <= ItemStatusDownloading.Rank() {
		t.Error("processing must rank above downloading")
	}
}

func TestKind_Valid(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected bool
	}{
		{KindMedia, true},
		{KindMediaVideo, true},
		{Kind(""), false},
		{Kind("mp4"), false},
	}

	for _, test := range tests {
		if result := test.kind.Valid(); result != test.expected {
			t.Errorf("Kind(%q).Valid() = %v, expected %v", test.kind, result, test.expected)
		}
	}
}
