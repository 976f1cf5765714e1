package model

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedBy   string `json:"created_by"`
	Description string `json:"description"`
}

type SearchResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CreatedBy   string  `json:"created_by"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
}
