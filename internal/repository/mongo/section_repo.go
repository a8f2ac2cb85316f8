package mongo

import (
	"context"
	"errors"
	"time"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sectionCollectionName = "sections"

// mongoSectionRepository implements repository.SectionRepository
type mongoSectionRepository struct {
	collection *mongo.Collection
}

// NewMongoSectionRepository creates a new Section repository.
func NewMongoSectionRepository(db *mongo.Database) repository.SectionRepository {
	return &mongoSectionRepository{
		collection: db.Collection(sectionCollectionName),
	}
}

// Create inserts a new section.
func (r *mongoSectionRepository) Create(ctx context.Context, section *domain.Section) (primitive.ObjectID, error) {
	if section.CourseID == primitive.NilObjectID || section.Title == "" {
		return primitive.NilObjectID, errors.New("section requires courseId and title")
	}
	section.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted section ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single section by its ID.
func (r *mongoSectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Section, error) {
	var section domain.Section
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// ListByCourse retrieves the sections of a course in display order.
func (r *mongoSectionRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"courseId": courseID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sections := []domain.Section{}
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *mongoSectionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureSectionIndexes creates necessary indexes for the sections collection.
func EnsureSectionIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
	})
	return err
}
