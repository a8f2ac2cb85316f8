package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a node of the course tree. A nil ParentID marks a root
// (e.g. a program), deeper nodes are categories or actual courses.
type Course struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	ThumbnailURL string              `bson:"thumbnail" json:"thumbnail"`
	ParentID     *primitive.ObjectID `bson:"parentId" json:"parentId"` // stored as null for roots
	Order        int                 `bson:"order" json:"order"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsRoot reports whether the course has no parent.
func (c *Course) IsRoot() bool {
	return c.ParentID == nil
}
