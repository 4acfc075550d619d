package model

import (
	"errors"
	"testing"
)

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusDownloading, true},
		{TaskStatusStopping, true},
		{TaskStatusStopped, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusDownloading, false},
		{TaskStatusStopping, false},
		{TaskStatusStopped, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected TaskStatus
	}{
		{Done("/tmp/a.mp4"), TaskStatusCompleted},
		{Cancelled(), TaskStatusStopped},
		{Failed(errors.New("boom")), TaskStatusError},
	}

	for _, test := range tests {
		if got := StatusFor(test.outcome); got != test.expected {
			t.Errorf("StatusFor(%s) = %s, expected %s", test.outcome.State, got, test.expected)
		}
	}
}
