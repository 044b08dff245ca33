package domain

import (
	"strings"
	"time"
)

// DefaultModel is the image model used when a job does not name one.
const DefaultModel = "gemini-2.5-flash-image-preview"

// CameraAngle is a named viewpoint for which one render is generated. Angles
// are immutable once added to a job and are identified by position within
// their owning section's angle list.
type CameraAngle struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FinishSpec maps a surface or material category to a free-text description,
// e.g. "exterior walls" -> "white stucco".
type FinishSpec map[string]string

// ReferenceFile is a validated plan or reference input. Size and MIME are
// filled in by the job builder when it checks that the file is readable.
type ReferenceFile struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
	MIME string `json:"mime" yaml:"mime"`
}

// ExteriorInput holds everything needed to render the building exterior.
type ExteriorInput struct {
	Files    []ReferenceFile `json:"files,omitempty" yaml:"files,omitempty"`
	Finishes FinishSpec      `json:"finishes,omitempty" yaml:"finishes,omitempty"`
	Angles   []CameraAngle   `json:"angles,omitempty" yaml:"angles,omitempty"`
}

// RoomInput holds the inputs for one interior room. Room names are unique
// within a job, compared case-insensitively.
type RoomInput struct {
	Name     string          `json:"name" yaml:"name"`
	Files    []ReferenceFile `json:"files,omitempty" yaml:"files,omitempty"`
	Notes    string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Finishes FinishSpec      `json:"finishes,omitempty" yaml:"finishes,omitempty"`
	Angles   []CameraAngle   `json:"angles,omitempty" yaml:"angles,omitempty"`
}

// RenderJob is the full description of a render request. It is built once by
// the job builder and treated as read-only afterwards.
type RenderJob struct {
	ProjectName string        `json:"project_name" yaml:"project_name"`
	StyleNotes  string        `json:"style_notes,omitempty" yaml:"style_notes,omitempty"`
	Model       string        `json:"model" yaml:"model"`
	Exterior    ExteriorInput `json:"exterior" yaml:"exterior"`
	Rooms       []RoomInput   `json:"rooms,omitempty" yaml:"rooms,omitempty"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
}

// AngleCount reports the total number of camera angles across the exterior
// and every room. A job needs at least one to be submittable.
func (j *RenderJob) AngleCount() int {
	n := len(j.Exterior.Angles)
	for _, room := range j.Rooms {
		n += len(room.Angles)
	}
	return n
}

// Section resolves a selector to a read-only view over the files, finishes,
// notes and angles of the part of the job it names. The second return value
// is false when the selector points at a room the job does not contain.
func (j *RenderJob) Section(sel Selector) (Section, bool) {
	if sel.Kind == SelectorExterior {
		return Section{
			Files:    j.Exterior.Files,
			Finishes: j.Exterior.Finishes,
			Angles:   j.Exterior.Angles,
		}, true
	}
	for _, room := range j.Rooms {
		if strings.EqualFold(room.Name, sel.Room) {
			return Section{
				Files:    room.Files,
				Finishes: room.Finishes,
				Notes:    room.Notes,
				Angles:   room.Angles,
			}, true
		}
	}
	return Section{}, false
}

// Section is a read-only view over one selectable part of a job.
type Section struct {
	Files    []ReferenceFile
	Finishes FinishSpec
	Notes    string
	Angles   []CameraAngle
}
