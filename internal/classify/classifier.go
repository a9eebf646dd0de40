package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// ChunkType categorizes a passage of textbook text by its pedagogical role.
type ChunkType int

const (
	// Concept is explanatory material; the default when nothing else matches.
	Concept ChunkType = iota
	// Question is interrogative or instructional material.
	Question
	// Application is worked examples, exercises and practical material.
	Application
)

// String returns the stable wire/storage name of the chunk type.
func (t ChunkType) String() string {
	switch t {
	case Question:
		return "question"
	case Application:
		return "application"
	default:
		return "concept"
	}
}

// ParseChunkType converts a stored type name back into a ChunkType.
func ParseChunkType(s string) (ChunkType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concept":
		return Concept, nil
	case "question":
		return Question, nil
	case "application":
		return Application, nil
	}
	return Concept, fmt.Errorf("unknown chunk type %q", s)
}

// Pattern groups are evaluated in priority order: question markers win over
// application markers, and anything unmatched is a concept. A chunk containing
// both "what is" and "solve for" is therefore a Question.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(what|how|why|when|where|which|who)\b`),
	regexp.MustCompile(`\?\s*$`),
	regexp.MustCompile(`\b(explain|describe|define|compare|contrast|analyze)\b`),
	regexp.MustCompile(`\b(can you|could you|would you)\b`),
}

var applicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(solve|calculate|determine|find|show|demonstrate)\b`),
	regexp.MustCompile(`\b(example|problem|exercise|activity|experiment)\b`),
	regexp.MustCompile(`\b(approach|method|technique|procedure)\b`),
	regexp.MustCompile(`\b(practical|real world|clinical|laboratory)\b`),
}

// Classify assigns a ChunkType to a text chunk using keyword-pattern matching.
func Classify(chunk string) ChunkType {
	lower := strings.ToLower(chunk)

	for _, p := range questionPatterns {
		if p.MatchString(lower) {
			return Question
		}
	}
	for _, p := range applicationPatterns {
		if p.MatchString(lower) {
			return Application
		}
	}
	return Concept
}

// biologyTerms is the fixed vocabulary used for keyword extraction.
var biologyTerms = []string{
	"cell", "tissue", "organ", "organism", "dna", "rna", "protein", "enzyme",
	"metabolism", "photosynthesis", "respiration", "mitosis", "meiosis",
	"evolution", "ecosystem", "membrane", "nucleus", "mitochondria",
	"chloroplast", "ribosome", "genetics", "heredity", "mutation",
	"adaptation", "classification", "taxonomy", "species", "genus",
	"kingdom", "phylum", "class", "order", "family", "bacteria",
	"virus", "fungi", "plant", "animal", "human", "physiology",
	"anatomy", "biochemistry", "molecular", "cellular", "ecological",
}

// Keywords returns the biology vocabulary terms that appear as
// case-insensitive substrings of the chunk. The result may be empty and
// preserves vocabulary order.
func Keywords(chunk string) []string {
	lower := strings.ToLower(chunk)
	var found []string
	for _, term := range biologyTerms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}
