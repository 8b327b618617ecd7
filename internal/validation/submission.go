package validation

import (
	"strconv"
	"strings"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
)

// MinDocuments is the number of identity documents every submission needs.
const MinDocuments = 2

// ValidateSubmission checks field presence, the document type enumeration
// and the document count. All violations are reported together.
func ValidateSubmission(sub *model.Submission) error {
	if v := submissionViolations(sub); len(v) > 0 {
		return apperr.Validation(v...)
	}
	return nil
}

// ParseSubmission converts a request body into a Submission, reporting
// malformed dates alongside every other violation.
func ParseSubmission(in *model.SubmissionInput) (*model.Submission, error) {
	var violations []apperr.Violation

	sub := &model.Submission{
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              strings.TrimSpace(in.Email),
		ResidentialStreet1: strings.TrimSpace(in.ResidentialStreet1),
		ResidentialStreet2: strings.TrimSpace(in.ResidentialStreet2),
		SameAsResidential:  in.SameAsResidential,
		PermanentStreet1:   strings.TrimSpace(in.PermanentStreet1),
		PermanentStreet2:   strings.TrimSpace(in.PermanentStreet2),
		Documents:          model.Documents(in.Documents),
	}

	badDate := false
	if dob := strings.TrimSpace(in.DateOfBirth); dob != "" {
		t, err := model.ParseDate(dob)
		if err != nil {
			badDate = true
			violations = append(violations, apperr.Violation{Field: "dateOfBirth", Message: "is not a valid date"})
		}
		sub.DateOfBirth = t
	}

	for _, v := range submissionViolations(sub) {
		if badDate && v.Field == "dateOfBirth" {
			continue
		}
		violations = append(violations, v)
	}

	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}
	return sub, nil
}

func submissionViolations(sub *model.Submission) []apperr.Violation {
	var out []apperr.Violation
	add := func(field string, err error) {
		if err != nil {
			out = append(out, apperr.Violation{Field: field, Message: err.Error()})
		}
	}

	add("firstName", ValidateRequired(sub.FirstName))
	add("lastName", ValidateRequired(sub.LastName))
	add("email", ValidateEmail(sub.Email))
	if sub.DateOfBirth.IsZero() {
		out = append(out, apperr.Violation{Field: "dateOfBirth", Message: "is required"})
	}
	add("residentialStreet1", ValidateRequired(sub.ResidentialStreet1))
	if sub.SameAsResidential == nil {
		out = append(out, apperr.Violation{Field: "sameAsResidential", Message: "is required"})
	}

	for i, doc := range sub.Documents {
		out = append(out, documentViolations(i, doc)...)
	}
	if len(sub.Documents) < MinDocuments {
		out = append(out, apperr.Violation{Field: "documents", Message: "At least two documents are required"})
	}

	return out
}

func documentViolations(i int, doc model.DocumentRef) []apperr.Violation {
	var out []apperr.Violation
	prefix := "documents." + strconv.Itoa(i) + "."

	if err := ValidateRequired(doc.FileName); err != nil {
		out = append(out, apperr.Violation{Field: prefix + "fileName", Message: err.Error()})
	}
	switch {
	case doc.FileType == "":
		out = append(out, apperr.Violation{Field: prefix + "fileType", Message: "is required"})
	case !doc.FileType.Valid():
		out = append(out, apperr.Violation{
			Field:   prefix + "fileType",
			Message: "`" + string(doc.FileType) + "` is not a valid enum value (image, pdf)",
		})
	}
	if doc.File.IsZero() {
		out = append(out, apperr.Violation{Field: prefix + "file", Message: "is required"})
	}
	return out
}
