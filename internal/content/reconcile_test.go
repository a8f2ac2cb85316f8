package content

import (
	"testing"

	"academy/lms-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileSynthesizesFromLegacyVideo(t *testing.T) {
	got := Reconcile(Payload{
		Title:  "T1",
		Legacy: domain.LegacyContent{VideoURL: "http://x/v.mp4", Duration: "65 min"},
	})

	require.Len(t, got.Videos, 1)
	assert.Equal(t, domain.VideoItem{
		Title:    "T1",
		VideoURL: "http://x/v.mp4",
		Duration: "65 min",
		Order:    0,
	}, got.Videos[0])
	assert.Empty(t, got.Videos[0].StorageID)
	assert.NotNil(t, got.Ppts)
	assert.NotNil(t, got.Materials)
}

func TestReconcileArrayWinsOverLegacy(t *testing.T) {
	videos := []domain.VideoItem{{Title: "Intro", VideoURL: "http://cdn/a.mp4", StorageID: "a", Order: 3}}

	got := Reconcile(Payload{
		Title:  "T1",
		Videos: videos,
		Legacy: domain.LegacyContent{VideoURL: "http://x/v.mp4"},
	})

	assert.Equal(t, videos, got.Videos)
}

func TestReconcileEachKindIndependently(t *testing.T) {
	got := Reconcile(Payload{
		Ppts: []domain.PptItem{{Title: "Deck", PptURL: "http://cdn/d.pptx", StorageID: "d"}},
		Legacy: domain.LegacyContent{
			PptURL:           "http://old/deck.pptx",
			StudyMaterialURL: "http://old/notes.pdf",
		},
	})

	require.Len(t, got.Ppts, 1)
	assert.Equal(t, "http://cdn/d.pptx", got.Ppts[0].PptURL)

	require.Len(t, got.Materials, 1)
	assert.Equal(t, DefaultMaterialTitle, got.Materials[0].Title)
	assert.Equal(t, "http://old/notes.pdf", got.Materials[0].MaterialURL)

	assert.Empty(t, got.Videos)
}

func TestReconcileDefaultTitles(t *testing.T) {
	got := Reconcile(Payload{
		Title: "   ",
		Legacy: domain.LegacyContent{
			VideoURL:         "v",
			PptURL:           "p",
			StudyMaterialURL: "m",
		},
	})
	assert.Equal(t, DefaultVideoTitle, got.Videos[0].Title)
	assert.Equal(t, DefaultPptTitle, got.Ppts[0].Title)
	assert.Equal(t, DefaultMaterialTitle, got.Materials[0].Title)
}

func TestReconcileIgnoresBlankLegacy(t *testing.T) {
	got := Reconcile(Payload{Title: "T", Legacy: domain.LegacyContent{VideoURL: "  "}})
	assert.True(t, Empty(got))
}

func TestReconcileDoesNotAliasInput(t *testing.T) {
	videos := []domain.VideoItem{{Title: "A", VideoURL: "u", StorageID: "s"}}
	got := Reconcile(Payload{Videos: videos})
	got.Videos[0].Title = "changed"
	assert.Equal(t, "A", videos[0].Title)
}

func TestAppendKeepsOrderAndValues(t *testing.T) {
	a := domain.VideoItem{Title: "A", VideoURL: "http://a", StorageID: "a", Order: 5}
	b := domain.VideoItem{Title: "B", VideoURL: "http://b", StorageID: "b", Order: 1}

	content := domain.SessionContent{}
	content = Append(content, domain.SessionContent{Videos: []domain.VideoItem{a}})
	content = Append(content, domain.SessionContent{Videos: []domain.VideoItem{b}})

	assert.Equal(t, []domain.VideoItem{a, b}, content.Videos)
	assert.Empty(t, content.Ppts)
}

func TestAppendAllowsDuplicateOrders(t *testing.T) {
	existing := domain.SessionContent{
		Materials: []domain.MaterialItem{{Title: "m1", MaterialURL: "u1", StorageID: "s1", Order: 0}},
	}
	add := domain.SessionContent{
		Materials: []domain.MaterialItem{
			{Title: "m1", MaterialURL: "u1", StorageID: "s1", Order: 0},
			{Title: "m2", MaterialURL: "u2", StorageID: "s2", Order: 0},
		},
	}

	got := Append(existing, add)
	require.Len(t, got.Materials, 3)
	for _, m := range got.Materials {
		assert.Equal(t, 0, m.Order)
	}
	assert.Len(t, existing.Materials, 1, "input must not be modified")
}

func TestSortedVideosIsStableByOrder(t *testing.T) {
	videos := []domain.VideoItem{
		{Title: "late", Order: 2},
		{Title: "first-zero", Order: 0},
		{Title: "second-zero", Order: 0},
	}

	got := SortedVideos(videos)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	assert.Equal(t, []string{"first-zero", "second-zero", "late"}, titles)
	assert.Equal(t, "late", videos[0].Title, "input must not be reordered")
}

func TestSortedPptsAndMaterials(t *testing.T) {
	ppts := SortedPpts([]domain.PptItem{{Title: "b", Order: 1}, {Title: "a", Order: -1}})
	assert.Equal(t, "a", ppts[0].Title)

	materials := SortedMaterials(nil)
	assert.NotNil(t, materials)
	assert.Empty(t, materials)
}
