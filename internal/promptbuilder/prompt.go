// Package promptbuilder turns one (job, selector, angle) triple into the
// payload for a single generation call. Everything here is deterministic:
// the same inputs always produce byte-identical output.
package promptbuilder

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

// BuildPrompt renders the fixed prompt template for one camera angle:
// style, then materials, then room context, then camera instructions.
func BuildPrompt(job *domain.RenderJob, sel domain.Selector, angle domain.CameraAngle) string {
	section, _ := job.Section(sel)

	var b strings.Builder
	b.WriteString("You are an architectural visualization rendering assistant.\n\n")
	b.WriteString("Goal: Generate a photorealistic render that is CONSISTENT across views.\n\n")

	b.WriteString("PROJECT: ")
	b.WriteString(job.ProjectName)
	b.WriteString("\n")
	b.WriteString("STYLE / CONSISTENCY NOTES:\n")
	b.WriteString(strings.TrimSpace(job.StyleNotes))
	b.WriteString("\n")

	if len(section.Finishes) > 0 {
		b.WriteString("\n")
		b.WriteString(finishHeading(sel))
		b.WriteString("\n")
		titler := cases.Title(language.Und)
		for _, category := range sortedCategories(section.Finishes) {
			b.WriteString("- ")
			b.WriteString(titler.String(category))
			b.WriteString(": ")
			b.WriteString(strings.TrimSpace(section.Finishes[category]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nSCOPE: ")
	b.WriteString(string(sel.Kind))
	b.WriteString("\nSCOPE_NAME: ")
	b.WriteString(sel.Label())
	b.WriteString("\n")
	if notes := strings.TrimSpace(section.Notes); notes != "" {
		b.WriteString("ROOM NOTES:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	b.WriteString("\nCAMERA ANGLE NAME: ")
	b.WriteString(angle.Name)
	b.WriteString("\nCAMERA ANGLE DETAILS: ")
	b.WriteString(angle.Description)
	b.WriteString("\n")

	b.WriteString("\nInstructions:\n")
	b.WriteString("- Maintain consistent materials, colors, and style across all generated images.\n")
	b.WriteString("- Use the provided plan and material notes as ground truth.\n")
	b.WriteString("- Do not hallucinate additional rooms/materials not described.\n")
	b.WriteString("- Produce a high quality, realistic render.\n\n")
	b.WriteString("Return only the final image.")

	return b.String()
}

func finishHeading(sel domain.Selector) string {
	if sel.Kind == domain.SelectorExterior {
		return "EXTERIOR FINISH NOTES:"
	}
	return "ROOM FINISH NOTES:"
}

// sortedCategories fixes the iteration order so the prompt is stable across
// calls. Map order would leak into the output otherwise.
func sortedCategories(finishes domain.FinishSpec) []string {
	categories := make([]string, 0, len(finishes))
	for category := range finishes {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
