package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FileType enumerates the accepted identity document formats.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
)

// Valid reports whether t is one of the enumerated file types.
func (t FileType) Valid() bool {
	return t == FileTypeImage || t == FileTypePDF
}

// DocumentRef is embedded metadata for one identity document.
type DocumentRef struct {
	FileName string   `bson:"fileName" json:"fileName"`
	FileType FileType `bson:"fileType" json:"fileType"`
	File     Payload  `bson:"file" json:"file"`
}

// Documents is stored as a JSON column by the SQL repository.
type Documents []DocumentRef

func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]DocumentRef(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Documents) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("documents: unsupported column type %T", src)
	}
	var docs []DocumentRef
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	*d = docs
	return nil
}

// Submission is one completed intake form.
type Submission struct {
	ID                 string    `bson:"_id,omitempty" db:"id" json:"id,omitempty"`
	FirstName          string    `bson:"firstName" db:"first_name" json:"firstName"`
	LastName           string    `bson:"lastName" db:"last_name" json:"lastName"`
	Email              string    `bson:"email" db:"email" json:"email"`
	DateOfBirth        time.Time `bson:"dateOfBirth" db:"date_of_birth" json:"dateOfBirth"`
	ResidentialStreet1 string    `bson:"residentialStreet1" db:"residential_street1" json:"residentialStreet1"`
	ResidentialStreet2 string    `bson:"residentialStreet2,omitempty" db:"residential_street2" json:"residentialStreet2,omitempty"`
	SameAsResidential  *bool     `bson:"sameAsResidential" db:"same_as_residential" json:"sameAsResidential"`
	PermanentStreet1   string    `bson:"permanentStreet1,omitempty" db:"permanent_street1" json:"permanentStreet1,omitempty"`
	PermanentStreet2   string    `bson:"permanentStreet2,omitempty" db:"permanent_street2" json:"permanentStreet2,omitempty"`
	Documents          Documents `bson:"documents" db:"documents" json:"documents"`
	CreatedAt          time.Time `bson:"createdAt" db:"created_at" json:"createdAt"`
}

// dateLayouts are tried in order when parsing dateOfBirth.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses a date of birth in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
