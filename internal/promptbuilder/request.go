package promptbuilder

import (
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

// BuildRequest assembles the ephemeral GenerationRequest for the angle at
// angleIndex within the selected section: the templated prompt plus the
// section's reference files attached inline. Files are re-read here, so a
// reference that was moved or deleted after the job was built surfaces as a
// domain.ErrFileAccess.
func BuildRequest(job *domain.RenderJob, sel domain.Selector, angleIndex int) (*domain.GenerationRequest, error) {
	section, ok := job.Section(sel)
	if !ok {
		return nil, fmt.Errorf("selector %q: no such section in job", sel.Label())
	}
	if angleIndex < 0 || angleIndex >= len(section.Angles) {
		return nil, fmt.Errorf("selector %q: angle index %d out of range", sel.Label(), angleIndex)
	}
	angle := section.Angles[angleIndex]

	references := make([]domain.ReferenceImage, 0, len(section.Files))
	for _, file := range section.Files {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrFileAccess, file.Path, err)
		}
		mime := file.MIME
		if mime == "" {
			mime = mimetype.Detect(data).String()
		}
		references = append(references, domain.ReferenceImage{MIME: mime, Data: data})
	}

	return &domain.GenerationRequest{
		Model:      job.Model,
		Prompt:     BuildPrompt(job, sel, angle),
		References: references,
	}, nil
}
