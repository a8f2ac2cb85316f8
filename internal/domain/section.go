package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section groups sessions inside a course. CourseID never changes after creation.
type Section struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title     string             `bson:"title" json:"title"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
