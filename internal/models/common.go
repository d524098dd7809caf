// server/internal/models/common.go
package models

// MediaPointer references an uploaded file stored on S3 or a similar service.
type MediaPointer struct {
	ID       string `bson:"id" json:"id"`
	URL      string `bson:"url" json:"url"`
	FileName string `bson:"fileName" json:"fileName"`
	FileType string `bson:"fileType" json:"fileType"` // e.g. "image/png", "audio/mpeg"
}

// Address is a structured postal address.
type Address struct {
	FullText string `bson:"fullText" json:"fullText"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	Country  string `bson:"country,omitempty" json:"country,omitempty"`
}
