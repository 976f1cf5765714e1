package model

// EmbeddingEntry is one row of the durable cache snapshot: the exact source
// text and its embedding vector.
type EmbeddingEntry struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}
