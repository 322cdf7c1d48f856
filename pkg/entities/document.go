package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// Document is the metadata of a file uploaded for a user through the web
// panel. The file itself lives on disk under the stored filename.
type Document struct {
	// ID is the unique ID of the document.
	ID string `json:"id" bson:"id"`

	// Username is the user the document belongs to.
	Username string `json:"username" bson:"username"`

	// OriginalFilename is the filename as uploaded.
	OriginalFilename string `json:"original_filename" bson:"original_filename"`

	// StoredFilename is the name of the file in the documents directory.
	StoredFilename string `json:"stored_filename" bson:"stored_filename"`

	// ContentType is the MIME type reported on upload.
	ContentType string `json:"content_type,omitempty" bson:"content_type,omitempty"`

	// UploadedBy is the panel user that uploaded the document.
	UploadedBy string `json:"uploaded_by" bson:"uploaded_by"`

	// UploadedAt is the time of the upload.
	UploadedAt custom.Datetime `json:"uploaded_at" bson:"uploaded_at"`
}
