package domain

import (
	"strings"
	"testing"
)

func TestSectionLookup(t *testing.T) {
	job := &RenderJob{
		Exterior: ExteriorInput{Angles: []CameraAngle{{Name: "Front"}}},
		Rooms: []RoomInput{
			{Name: "Kitchen", Notes: "island", Angles: []CameraAngle{{Name: "Main"}}},
		},
	}

	section, ok := job.Section(ExteriorSelector())
	if !ok || len(section.Angles) != 1 {
		t.Fatalf("exterior lookup failed: %+v", section)
	}

	section, ok = job.Section(RoomSelector("kitchen"))
	if !ok {
		t.Fatalf("room lookup should be case-insensitive")
	}
	if section.Notes != "island" {
		t.Fatalf("room notes mismatch: %q", section.Notes)
	}

	if _, ok := job.Section(RoomSelector("Attic")); ok {
		t.Fatalf("unknown room should not resolve")
	}
}

func TestAngleCount(t *testing.T) {
	job := &RenderJob{
		Exterior: ExteriorInput{Angles: []CameraAngle{{Name: "A"}}},
		Rooms: []RoomInput{
			{Name: "R1", Angles: []CameraAngle{{Name: "B"}, {Name: "C"}}},
			{Name: "R2"},
		},
	}
	if got := job.AngleCount(); got != 3 {
		t.Fatalf("angle count mismatch: %d", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []string{"first", "second"}}
	msg := err.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Fatalf("message missing violations: %q", msg)
	}
}

func TestAngleStateTerminal(t *testing.T) {
	for state, want := range map[AngleState]bool{
		AnglePending:   false,
		AngleRequested: false,
		AngleSucceeded: true,
		AngleFailed:    true,
		AngleCancelled: true,
	} {
		if got := state.Terminal(); got != want {
			t.Fatalf("Terminal(%s) = %v, want %v", state, got, want)
		}
	}
}

func TestSelectorLabel(t *testing.T) {
	if ExteriorSelector().Label() != "exterior" {
		t.Fatalf("exterior label mismatch")
	}
	if RoomSelector("Kitchen").Label() != "Kitchen" {
		t.Fatalf("room label mismatch")
	}
}
