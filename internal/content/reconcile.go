// Package content merges session content supplied in the array form and
// the legacy single-URL form into one canonical SessionContent.
package content

import (
	"cmp"
	"slices"
	"strings"

	"academy/lms-backend/internal/domain"
)

// Default titles for items synthesized from legacy fields when the
// session itself has no title.
const (
	DefaultVideoTitle    = "Video"
	DefaultPptTitle      = "PPT"
	DefaultMaterialTitle = "Study Material"
)

// Payload is the content part of a session create request.
type Payload struct {
	Title     string
	Videos    []domain.VideoItem
	Ppts      []domain.PptItem
	Materials []domain.MaterialItem
	Legacy    domain.LegacyContent
}

// Reconcile returns the canonical content for p. For each kind, a non-empty
// array wins and the legacy field is ignored; an empty array with a legacy
// URL becomes a single synthesized item with order 0 and no storage id.
// The returned slices are never nil.
func Reconcile(p Payload) domain.SessionContent {
	out := domain.SessionContent{
		Videos:    append([]domain.VideoItem{}, p.Videos...),
		Ppts:      append([]domain.PptItem{}, p.Ppts...),
		Materials: append([]domain.MaterialItem{}, p.Materials...),
	}

	if len(out.Videos) == 0 && strings.TrimSpace(p.Legacy.VideoURL) != "" {
		out.Videos = []domain.VideoItem{{
			Title:    titleOr(p.Title, DefaultVideoTitle),
			VideoURL: p.Legacy.VideoURL,
			Duration: p.Legacy.Duration,
			Order:    0,
		}}
	}
	if len(out.Ppts) == 0 && strings.TrimSpace(p.Legacy.PptURL) != "" {
		out.Ppts = []domain.PptItem{{
			Title:  titleOr(p.Title, DefaultPptTitle),
			PptURL: p.Legacy.PptURL,
			Order:  0,
		}}
	}
	if len(out.Materials) == 0 && strings.TrimSpace(p.Legacy.StudyMaterialURL) != "" {
		out.Materials = []domain.MaterialItem{{
			Title:       titleOr(p.Title, DefaultMaterialTitle),
			MaterialURL: p.Legacy.StudyMaterialURL,
			Order:       0,
		}}
	}
	return out
}

// Append concatenates add after existing, kind by kind. Items keep their
// order values; nothing is removed, deduplicated or renumbered.
func Append(existing, add domain.SessionContent) domain.SessionContent {
	out := domain.SessionContent{
		Videos:    make([]domain.VideoItem, 0, len(existing.Videos)+len(add.Videos)),
		Ppts:      make([]domain.PptItem, 0, len(existing.Ppts)+len(add.Ppts)),
		Materials: make([]domain.MaterialItem, 0, len(existing.Materials)+len(add.Materials)),
	}
	out.Videos = append(append(out.Videos, existing.Videos...), add.Videos...)
	out.Ppts = append(append(out.Ppts, existing.Ppts...), add.Ppts...)
	out.Materials = append(append(out.Materials, existing.Materials...), add.Materials...)
	return out
}

// Empty reports whether c has no items of any kind.
func Empty(c domain.SessionContent) bool {
	return len(c.Videos) == 0 && len(c.Ppts) == 0 && len(c.Materials) == 0
}

func titleOr(title, fallback string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return fallback
}

// SortedVideos returns a copy of videos ordered by Order. Equal orders keep
// their array position.
func SortedVideos(videos []domain.VideoItem) []domain.VideoItem {
	out := append([]domain.VideoItem{}, videos...)
	slices.SortStableFunc(out, func(a, b domain.VideoItem) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

// SortedPpts is SortedVideos for slide decks.
func SortedPpts(ppts []domain.PptItem) []domain.PptItem {
	out := append([]domain.PptItem{}, ppts...)
	slices.SortStableFunc(out, func(a, b domain.PptItem) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

// SortedMaterials is SortedVideos for study materials.
func SortedMaterials(materials []domain.MaterialItem) []domain.MaterialItem {
	out := append([]domain.MaterialItem{}, materials...)
	slices.SortStableFunc(out, func(a, b domain.MaterialItem) int { return cmp.Compare(a.Order, b.Order) })
	return out
}
