package entity

// RequestFilter narrows request listings. Zero values mean "no filter".
type RequestFilter struct {
	SubjectID string
	Status    string
	StartAt   string // YYYY-MM-DD
	EndAt     string // YYYY-MM-DD
}
