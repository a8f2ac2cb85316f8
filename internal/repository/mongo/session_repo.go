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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session. Nil content arrays are stored as empty arrays.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.SectionID == primitive.NilObjectID || session.Title == "" {
		return primitive.NilObjectID, errors.New("session requires sectionId and title")
	}
	session.SessionContent = nonNil(session.SessionContent)

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	session.SessionContent = nonNil(session.SessionContent)
	return &session, nil
}

// ListBySection retrieves all sessions of a section, oldest first.
func (r *mongoSessionRepository) ListBySection(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Session, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sectionId": sectionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].SessionContent = nonNil(sessions[i].SessionContent)
	}
	return sessions, nil
}

// UpdateContent overwrites the content arrays and returns the updated document.
func (r *mongoSessionRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content domain.SessionContent) (*domain.Session, error) {
	content = nonNil(content)
	update := bson.M{
		"$set": bson.M{
			"videos":    content.Videos,
			"ppts":      content.Ppts,
			"materials": content.Materials,
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session domain.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	session.SessionContent = nonNil(session.SessionContent)
	return &session, nil
}

func (r *mongoSessionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sectionId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	})
	return err
}

// nonNil makes sure arrays are encoded as [] rather than null.
func nonNil(c domain.SessionContent) domain.SessionContent {
	if c.Videos == nil {
		c.Videos = []domain.VideoItem{}
	}
	if c.Ppts == nil {
		c.Ppts = []domain.PptItem{}
	}
	if c.Materials == nil {
		c.Materials = []domain.MaterialItem{}
	}
	return c
}
