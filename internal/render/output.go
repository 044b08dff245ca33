package render

import (
	"fmt"
	"strings"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

// outputKey builds the run-relative path for one angle's image. Exterior
// angles live under exterior/, room angles under interior/<NN_room>/. The
// one-based ordinals keep paths unique even when two angles share a name or
// two room names reduce to the same slug ("A B" and "A_B" both slug to A_B).
func outputKey(sel domain.Selector, roomOrdinal, angleIndex int, angle domain.CameraAngle, mime string) string {
	name := sanitizeName(angle.Name, "angle")
	file := fmt.Sprintf("%02d_%s%s", angleIndex+1, name, extForMIME(mime))
	if sel.Kind == domain.SelectorExterior {
		return "exterior/" + file
	}
	dir := fmt.Sprintf("%02d_%s", roomOrdinal, sanitizeName(sel.Room, "room"))
	return "interior/" + dir + "/" + file
}

// sanitizeName reduces a label to a filesystem-safe slug.
func sanitizeName(s, fallback string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return fallback
	}
	return out
}

func extForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
