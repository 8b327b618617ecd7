package model

// SubmissionInput is the request body of the submit endpoint. Fields stay
// loosely typed so every missing or malformed field can be reported at once.
type SubmissionInput struct {
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName"`
	Email              string        `json:"email"`
	DateOfBirth        string        `json:"dateOfBirth"`
	ResidentialStreet1 string        `json:"residentialStreet1"`
	ResidentialStreet2 string        `json:"residentialStreet2"`
	SameAsResidential  *bool         `json:"sameAsResidential"`
	PermanentStreet1   string        `json:"permanentStreet1"`
	PermanentStreet2   string        `json:"permanentStreet2"`
	Documents          []DocumentRef `json:"documents"`
}
