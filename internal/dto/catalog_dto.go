package dto

// ClassifierRequest creates a category or a genre; both share the same
// name+slug shape.
type ClassifierRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleRequest accepts slug references for category and genres; the read
// side nests the full objects instead (models.Title).
type TitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// TitleUpdateRequest carries partial updates; nil means "leave unchanged".
type TitleUpdateRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}
