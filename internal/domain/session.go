package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind names one of the three content arrays of a session.
type ContentKind string

const (
	KindVideo    ContentKind = "video"
	KindPPT      ContentKind = "ppt"
	KindMaterial ContentKind = "material"
)

// VideoItem is one uploaded video attached to a session.
// StorageID is the provider handle used for later management (deletion);
// it is serialized as publicId for compatibility with existing clients.
type VideoItem struct {
	Title        string `bson:"title" json:"title" binding:"required"`
	VideoURL     string `bson:"videoUrl" json:"videoUrl" binding:"required"`
	StorageID    string `bson:"publicId" json:"publicId" binding:"required"`
	Duration     string `bson:"duration" json:"duration"` // seconds or "HH:MM:SS"
	ThumbnailURL string `bson:"thumbnail" json:"thumbnail"`
	Order        int    `bson:"order" json:"order"`
	Bytes        int64  `bson:"bytes" json:"bytes"`
}

// PptItem is one slide deck attached to a session.
type PptItem struct {
	Title     string `bson:"title" json:"title" binding:"required"`
	PptURL    string `bson:"pptUrl" json:"pptUrl" binding:"required"`
	StorageID string `bson:"publicId" json:"publicId" binding:"required"`
	Order     int    `bson:"order" json:"order"`
	Bytes     int64  `bson:"bytes" json:"bytes"`
}

// MaterialItem is one study document attached to a session.
type MaterialItem struct {
	Title       string `bson:"title" json:"title" binding:"required"`
	MaterialURL string `bson:"materialUrl" json:"materialUrl" binding:"required"`
	StorageID   string `bson:"publicId" json:"publicId" binding:"required"`
	Order       int    `bson:"order" json:"order"`
	Bytes       int64  `bson:"bytes" json:"bytes"`
}

// LegacyContent holds the single-URL fields that predate the content arrays.
// They are still accepted on input and read from old documents, but new
// sessions carry their content in the arrays only.
type LegacyContent struct {
	StudyMaterialURL string `bson:"studyMaterialUrl,omitempty" json:"studyMaterialUrl,omitempty"`
	PptURL           string `bson:"pptUrl,omitempty" json:"pptUrl,omitempty"`
	VideoURL         string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Duration         string `bson:"duration,omitempty" json:"duration,omitempty"`
}

// SessionContent is the canonical, array-based content of a session.
// Array position is insertion order; Order on each item drives display.
type SessionContent struct {
	Videos    []VideoItem    `bson:"videos" json:"videos"`
	Ppts      []PptItem      `bson:"ppts" json:"ppts"`
	Materials []MaterialItem `bson:"materials" json:"materials"`
}

// Session is a single lesson inside a section.
type Session struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectionID      primitive.ObjectID `bson:"sectionId" json:"sectionId"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	SessionContent `bson:",inline"`
	LegacyContent  `bson:",inline"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionDetail is a session joined with its section and that section's course.
type SessionDetail struct {
	Session *Session
	Section *Section
	Course  *Course
}
