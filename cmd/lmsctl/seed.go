package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"
	"academy/lms-backend/internal/repository/mongo"
	"academy/lms-backend/internal/service"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// catalogRepos groups what seeding writes to.
type catalogRepos struct {
	Courses  repository.CourseRepository
	Sections repository.SectionRepository
	Sessions repository.SessionRepository
}

// seedSummary counts what seedCatalog created.
type seedSummary struct {
	Courses  int
	Sections int
	Sessions int
}

func newSeedCommand(c *cli) *cobra.Command {
	var assetBase string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with sample courses, sections and sessions",
		Long: `Deletes every course, section and session, then loads a sample catalog:
two programs, their categories, four courses and their lessons. Lesson
content points at files under --asset-base. Users are not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			return c.withDatabase(ctx, func(db *driver.Database) error {
				repos := catalogRepos{
					Courses:  mongo.NewMongoCourseRepository(db),
					Sections: mongo.NewMongoSectionRepository(db),
					Sessions: mongo.NewMongoSessionRepository(db),
				}
				sum, err := seedCatalog(ctx, repos, assetBase, c.log)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&assetBase, "asset-base", "http://localhost:5000/static", "base URL of the sample lesson files")
	return cmd
}

func printSummary(out io.Writer, sum seedSummary) {
	fmt.Fprintf(out, "Seeded %d courses, %d sections, %d sessions\n", sum.Courses, sum.Sections, sum.Sessions)
}

func clearCatalog(ctx context.Context, repos catalogRepos) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return errors.Wrap(repos.Courses.DeleteAll(ctx), "clear courses") })
	g.Go(func() error { return errors.Wrap(repos.Sections.DeleteAll(ctx), "clear sections") })
	g.Go(func() error { return errors.Wrap(repos.Sessions.DeleteAll(ctx), "clear sessions") })
	return g.Wait()
}

type courseSeed struct {
	Title       string
	Description string
	Children    []courseSeed
	Sections    []sectionSeed
}

type sectionSeed struct {
	Title    string
	Sessions int
	// Duration of lesson i is BaseMinutes + i*5 minutes.
	BaseMinutes int
}

// sampleCatalog is the tree loaded by seed. Sibling order follows slice position.
var sampleCatalog = []courseSeed{
	{
		Title:       "Naan Mudhalvan",
		Description: "Naan Mudhalvan program",
		Children: []courseSeed{
			{
				Title:       "Arts and Science",
				Description: "Arts and Science courses",
				Children: []courseSeed{
					{
						Title:       "Digital Marketing",
						Description: "Learn digital marketing strategies and techniques",
						Sections:    []sectionSeed{{Title: "Digital Marketing Basics", Sessions: 5, BaseMinutes: 45}},
					},
					{
						Title:       "AI Driven Digital Marketing",
						Description: "Master AI-powered digital marketing tools and strategies",
						Sections:    []sectionSeed{{Title: "AI Digital Marketing Fundamentals", Sessions: 18, BaseMinutes: 60}},
					},
				},
			},
			{
				Title:       "Paramedical",
				Description: "Paramedical courses",
				Children: []courseSeed{
					{
						Title:       "Communicative English for Nursing",
						Description: "Improve English communication skills for nursing professionals",
						Sections:    []sectionSeed{{Title: "Clinical Communication", Sessions: 4, BaseMinutes: 40}},
					},
					{
						Title:       "Digital Skills for Nursing",
						Description: "Essential digital skills for modern nursing practice",
						Sections:    []sectionSeed{{Title: "Digital Tools in Healthcare", Sessions: 4, BaseMinutes: 40}},
					},
				},
			},
		},
	},
	{
		Title:       "Knowvaa",
		Description: "Knowvaa platform",
	},
}

type seeder struct {
	courses   service.CourseService
	sections  service.SectionService
	sessions  service.SessionService
	assetBase string
	sum       seedSummary
}

// seedCatalog clears the catalog and loads sampleCatalog through the
// services, so lesson content goes through the same reconciliation as
// API requests.
func seedCatalog(ctx context.Context, repos catalogRepos, assetBase string, log logrus.FieldLogger) (seedSummary, error) {
	if err := clearCatalog(ctx, repos); err != nil {
		return seedSummary{}, err
	}
	log.Info("cleared existing catalog")

	s := &seeder{
		courses:   service.NewCourseService(repos.Courses, log),
		sections:  service.NewSectionService(repos.Sections, repos.Courses, log),
		sessions:  service.NewSessionService(repos.Sessions, repos.Sections, repos.Courses, log),
		assetBase: strings.TrimSuffix(assetBase, "/"),
	}
	for i, node := range sampleCatalog {
		if err := s.course(ctx, node, nil, i+1); err != nil {
			return s.sum, err
		}
	}
	log.WithFields(logrus.Fields{
		"courses":  s.sum.Courses,
		"sections": s.sum.Sections,
		"sessions": s.sum.Sessions,
	}).Info("catalog seeded")
	return s.sum, nil
}

func (s *seeder) course(ctx context.Context, node courseSeed, parentID *primitive.ObjectID, order int) error {
	course, err := s.courses.CreateCourse(ctx, service.CreateCourseInput{
		Title:       node.Title,
		Description: node.Description,
		ParentID:    parentID,
		Order:       order,
	})
	if err != nil {
		return errors.Wrapf(err, "create course %q", node.Title)
	}
	s.sum.Courses++

	for i, child := range node.Children {
		if err := s.course(ctx, child, &course.ID, i+1); err != nil {
			return err
		}
	}
	for i, sec := range node.Sections {
		if err := s.section(ctx, course.ID, sec, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) section(ctx context.Context, courseID primitive.ObjectID, sec sectionSeed, order int) error {
	section, err := s.sections.CreateSection(ctx, courseID, sec.Title, order)
	if err != nil {
		return errors.Wrapf(err, "create section %q", sec.Title)
	}
	s.sum.Sections++

	for i := 0; i < sec.Sessions; i++ {
		title := fmt.Sprintf("Session %d", i+1)
		_, err := s.sessions.CreateSession(ctx, service.CreateSessionInput{
			SectionID: section.ID,
			Title:     title,
			Legacy: domain.LegacyContent{
				StudyMaterialURL: s.assetBase + "/materials/sample.pdf",
				PptURL:           s.assetBase + "/ppts/sample.pptx",
				VideoURL:         s.assetBase + "/videos/sample.mp4",
				Duration:         fmt.Sprintf("%d min", sec.BaseMinutes+i*5),
			},
		})
		if err != nil {
			return errors.Wrapf(err, "create %s of %q", title, sec.Title)
		}
		s.sum.Sessions++
	}
	return nil
}
