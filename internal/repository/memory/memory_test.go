package memory

import (
	"context"
	"slices"
	"testing"
	"time"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseListByParentOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()

	older := &domain.Course{Title: "older", Order: 1}
	newer := &domain.Course{Title: "newer", Order: 1}
	first := &domain.Course{Title: "first", Order: 0}
	for _, c := range []*domain.Course{older, newer, first} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}
	child := &domain.Course{Title: "child", ParentID: &first.ID}
	_, err := repo.Create(ctx, child)
	require.NoError(t, err)

	roots, err := repo.ListByParent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, []string{"first", "newer", "older"}, []string{roots[0].Title, roots[1].Title, roots[2].Title})

	children, err := repo.ListByParent(ctx, &first.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "child", children[0].Title)
}

func TestListingsAreStableForEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	courses := NewCourseRepository()
	sessions := NewSessionRepository()
	sectionID := primitive.NewObjectID()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []primitive.ObjectID
	for i := 0; i < 20; i++ {
		id := primitive.NewObjectID()
		ids = append(ids, id)
		courses.courses[id] = domain.Course{ID: id, Title: "c", Order: 1, CreatedAt: at}
		sessions.sessions[id] = domain.Session{ID: id, SectionID: sectionID, Title: "s", CreatedAt: at}
	}
	slices.SortFunc(ids, compareIDs)

	for run := 0; run < 5; run++ {
		roots, err := courses.ListByParent(ctx, nil)
		require.NoError(t, err)
		require.Len(t, roots, len(ids))
		for i, c := range roots {
			assert.Equal(t, ids[len(ids)-1-i], c.ID)
		}

		list, err := sessions.ListBySection(ctx, sectionID)
		require.NoError(t, err)
		require.Len(t, list, len(ids))
		for i, s := range list {
			assert.Equal(t, ids[i], s.ID)
		}
	}
}

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, &domain.User{Email: "A@x.io", PasswordHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Email: " a@x.io", PasswordHash: "h", Role: domain.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "a@X.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", u.Email)
}

func TestSessionUpdateContentNotFound(t *testing.T) {
	repo := NewSessionRepository()
	_, err := repo.UpdateContent(context.Background(), primitive.NewObjectID(), domain.SessionContent{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
