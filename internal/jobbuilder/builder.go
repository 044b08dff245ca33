package jobbuilder

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

// AngleInput is one camera angle as collected from the presentation layer.
type AngleInput struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ExteriorSection carries the raw exterior inputs.
type ExteriorSection struct {
	Files    []string          `json:"files,omitempty" yaml:"files,omitempty"`
	Finishes map[string]string `json:"finishes,omitempty" yaml:"finishes,omitempty"`
	Angles   []AngleInput      `json:"angles,omitempty" yaml:"angles,omitempty"`
}

// RoomSection carries the raw inputs for one interior room.
type RoomSection struct {
	Name     string            `json:"name" yaml:"name"`
	Files    []string          `json:"files,omitempty" yaml:"files,omitempty"`
	Notes    string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Finishes map[string]string `json:"finishes,omitempty" yaml:"finishes,omitempty"`
	Angles   []AngleInput      `json:"angles,omitempty" yaml:"angles,omitempty"`
}

// JobInput is the raw state a presentation layer collects before a job is
// built. The same shape is accepted as a YAML/JSON job file by the CLI and as
// a request body by the companion daemon.
type JobInput struct {
	ProjectName string          `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	StyleNotes  string          `json:"style_notes,omitempty" yaml:"style_notes,omitempty"`
	Model       string          `json:"model,omitempty" yaml:"model,omitempty"`
	Exterior    ExteriorSection `json:"exterior,omitempty" yaml:"exterior,omitempty"`
	Rooms       []RoomSection   `json:"rooms,omitempty" yaml:"rooms,omitempty"`
}

// Build validates raw input and produces an immutable RenderJob. Validation
// does not stop at the first problem: every violation is collected so the
// caller can surface all of them at once. On failure the returned error is a
// *domain.ValidationError.
func Build(input JobInput) (*domain.RenderJob, error) {
	var violations []string

	exteriorFiles, fileViolations := resolveFiles("exterior", input.Exterior.Files)
	violations = append(violations, fileViolations...)

	seen := make(map[string]string, len(input.Rooms))
	rooms := make([]domain.RoomInput, 0, len(input.Rooms))
	for i, room := range input.Rooms {
		name := strings.TrimSpace(room.Name)
		if name == "" {
			violations = append(violations, fmt.Sprintf("room %d: name must not be empty", i+1))
		} else {
			key := strings.ToLower(name)
			if prev, dup := seen[key]; dup {
				violations = append(violations, fmt.Sprintf("room %q: duplicate of room %q (names are case-insensitive)", name, prev))
			} else {
				seen[key] = name
			}
		}

		label := name
		if label == "" {
			label = fmt.Sprintf("room %d", i+1)
		}
		files, fileViolations := resolveFiles(label, room.Files)
		violations = append(violations, fileViolations...)

		rooms = append(rooms, domain.RoomInput{
			Name:     name,
			Files:    files,
			Notes:    room.Notes,
			Finishes: domain.FinishSpec(room.Finishes),
			Angles:   convertAngles(room.Angles),
		})
	}

	job := &domain.RenderJob{
		ProjectName: strings.TrimSpace(input.ProjectName),
		StyleNotes:  input.StyleNotes,
		Model:       strings.TrimSpace(input.Model),
		Exterior: domain.ExteriorInput{
			Files:    exteriorFiles,
			Finishes: domain.FinishSpec(input.Exterior.Finishes),
			Angles:   convertAngles(input.Exterior.Angles),
		},
		Rooms:     rooms,
		CreatedAt: time.Now().UTC(),
	}
	if job.ProjectName == "" {
		job.ProjectName = "Untitled Project"
	}
	if job.Model == "" {
		job.Model = domain.DefaultModel
	}

	if job.AngleCount() == 0 {
		violations = append(violations, "at least one camera angle is required (exterior or any room)")
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return job, nil
}

// resolveFiles checks each referenced path exists and is readable, recording
// its size and detected MIME type. Detection reads the file header, so it
// doubles as the readability check.
func resolveFiles(section string, paths []string) ([]domain.ReferenceFile, []string) {
	var violations []string
	files := make([]domain.ReferenceFile, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			violations = append(violations, fmt.Sprintf("%s: empty file path", section))
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: file %q does not exist", section, path))
			continue
		}
		if info.IsDir() {
			violations = append(violations, fmt.Sprintf("%s: %q is a directory, not a file", section, path))
			continue
		}
		mime, err := mimetype.DetectFile(path)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: file %q is not readable", section, path))
			continue
		}
		files = append(files, domain.ReferenceFile{
			Path: path,
			Size: info.Size(),
			MIME: mime.String(),
		})
	}
	return files, violations
}

func convertAngles(angles []AngleInput) []domain.CameraAngle {
	out := make([]domain.CameraAngle, 0, len(angles))
	for _, a := range angles {
		out = append(out, domain.CameraAngle{
			Name:        strings.TrimSpace(a.Name),
			Description: a.Description,
		})
	}
	return out
}
