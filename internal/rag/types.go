package rag

// SourceInfo identifies the document being ingested; Title doubles as the
// provenance label on retrieved passages.
type SourceInfo struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	SourceID string `json:"source_id,omitempty"`
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	// ChunksCreated is the number of chunks stored.
	ChunksCreated int `json:"chunks_created"`
	// TypeCounts breaks the stored chunks down by classified type.
	TypeCounts map[string]int `json:"type_counts"`
}

// Passage is one retrieved result. Passages are ordered by ascending raw
// distance from the store; Confidence is a derived annotation and does not
// affect the ordering.
type Passage struct {
	// Text is the stored chunk text.
	Text string `json:"text"`
	// Source is the provenance label (book title or filename).
	Source string `json:"source"`
	// Type is the chunk's classified category name.
	Type string `json:"type"`
	// Keywords are the biology terms extracted at ingestion.
	Keywords []string `json:"keywords,omitempty"`
	// Confidence is the bounded (0, 0.95] relevance estimate.
	Confidence float64 `json:"confidence"`
	// Distance is the raw distance reported by the vector store.
	Distance float64 `json:"distance"`
}
