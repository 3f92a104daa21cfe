package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoType is the pose of a progress photo.
type PhotoType string

const (
	PhotoFront PhotoType = "FRONT"
	PhotoSide  PhotoType = "SIDE"
	PhotoBack  PhotoType = "BACK"
)

func (p PhotoType) Valid() bool {
	return p == PhotoFront || p == PhotoSide || p == PhotoBack
}

// Upload stores metadata about a progress photo uploaded by a student.
// The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"studentId" json:"studentId"`
	PhotoType   PhotoType          `bson:"photoType" json:"photoType"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
