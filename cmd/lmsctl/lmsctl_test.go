package main

import (
	"bytes"
	"context"
	"testing"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memoryCatalog() (catalogRepos, *memory.CourseRepository, *memory.SectionRepository, *memory.SessionRepository) {
	courses := memory.NewCourseRepository()
	sections := memory.NewSectionRepository()
	sessions := memory.NewSessionRepository()
	return catalogRepos{Courses: courses, Sections: sections, Sessions: sessions}, courses, sections, sessions
}

func TestSeedCatalogBuildsTree(t *testing.T) {
	ctx := context.Background()
	repos, courses, sections, sessions := memoryCatalog()

	sum, err := seedCatalog(ctx, repos, "http://assets.test/static/", logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, seedSummary{Courses: 8, Sections: 4, Sessions: 31}, sum)
	assert.Equal(t, 8, courses.Len())
	assert.Equal(t, 4, sections.Len())
	assert.Equal(t, 31, sessions.Len())

	roots, err := courses.ListByParent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Naan Mudhalvan", roots[0].Title)
	assert.Equal(t, 1, roots[0].Order)
	assert.Equal(t, "Knowvaa", roots[1].Title)

	categories, err := courses.ListByParent(ctx, &roots[0].ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Arts and Science", categories[0].Title)

	leaves, err := courses.ListByParent(ctx, &categories[0].ID)
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, "AI Driven Digital Marketing", leaves[1].Title)

	secs, err := sections.ListByCourse(ctx, leaves[1].ID)
	require.NoError(t, err)
	require.Len(t, secs, 1)

	lessons, err := sessions.ListBySection(ctx, secs[0].ID)
	require.NoError(t, err)
	require.Len(t, lessons, 18)
	first := lessons[0]
	assert.Equal(t, "Session 1", first.Title)
	require.Len(t, first.Videos, 1)
	assert.Equal(t, "http://assets.test/static/videos/sample.mp4", first.Videos[0].VideoURL)
	assert.Equal(t, "60 min", first.Videos[0].Duration)
	require.Len(t, first.Ppts, 1)
	require.Len(t, first.Materials, 1)
	assert.Equal(t, "Session 1", first.Materials[0].Title)
	assert.Equal(t, "145 min", lessons[17].Videos[0].Duration)
}

func TestSeedCatalogReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	repos, courses, _, sessions := memoryCatalog()

	_, err := seedCatalog(ctx, repos, "http://assets.test", logger.Discard())
	require.NoError(t, err)
	_, err = seedCatalog(ctx, repos, "http://assets.test", logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, 8, courses.Len())
	assert.Equal(t, 31, sessions.Len())
}

func TestCreateAdminOutcomes(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	log := logger.Discard()

	var out bytes.Buffer
	require.NoError(t, createAdmin(ctx, &out, users, "", log, "Boss@Example.com", "secret1", "Boss"))
	assert.Contains(t, out.String(), "Admin user created: boss@example.com (Boss)")

	out.Reset()
	require.NoError(t, createAdmin(ctx, &out, users, "", log, "boss@example.com", "other-pass", "Boss"))
	assert.Contains(t, out.String(), "Admin user already exists: boss@example.com")

	_, err := users.Create(ctx, &domain.User{Name: "Pat", Email: "pat@example.com", PasswordHash: "x", Role: domain.RoleUser})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, createAdmin(ctx, &out, users, "", log, "pat@example.com", "new-pass", "Pat Admin"))
	assert.Contains(t, out.String(), "Updated user to admin: pat@example.com")

	pat, err := users.GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, pat.Role)
	assert.Equal(t, "Pat Admin", pat.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(pat.PasswordHash), []byte("new-pass")))
}

func TestCreateAdminRequiresPassword(t *testing.T) {
	err := createAdmin(context.Background(), &bytes.Buffer{}, memory.NewUserRepository(), "s", logger.Discard(), "a@example.com", "", "")
	assert.Error(t, err)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"create-admin", "seed"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}
