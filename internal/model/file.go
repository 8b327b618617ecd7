package model

import (
	"time"
)

// StoredFile describes one object in the blob store. It is immutable once
// the upload stream completes.
type StoredFile struct {
	ID          string    `db:"id" json:"id"`
	Filename    string    `db:"filename" json:"filename"`
	ContentType string    `db:"content_type" json:"contentType"`
	Size        int64     `db:"length" json:"size"`
	ChunkSize   int64     `db:"chunk_size" json:"-"`
	UploadDate  time.Time `db:"upload_date" json:"uploadDate"`
}
