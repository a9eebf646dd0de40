package scoring

import (
	"math"
	"strings"

	"biolens/internal/classify"
)

const (
	// maxConfidence caps every score below certainty: retrieval here is
	// extractive with no verification step, so the system never reports
	// full confidence.
	maxConfidence = 0.95

	maxKeywordBoost = 1.5

	keywordMatchWeight = 0.1
	termOverlapWeight  = 0.2
)

// Confidence converts a raw distance plus chunk metadata into a bounded
// relevance score in (0, 0.95]. The score is an annotation on each result;
// result ordering stays by ascending store distance and is never re-sorted by
// confidence.
func Confidence(distance float64, chunkType classify.ChunkType, keywords []string, query, document string) float64 {
	// Distance 0 maps to similarity 1; larger distances shrink toward but
	// never reach 0.
	similarity := 1 / (1 + distance)

	confidence := math.Min(maxConfidence, similarity*typeBoost(chunkType)*keywordBoost(query, document, keywords))
	return math.Round(confidence*1000) / 1000
}

// typeBoost weights chunk categories: questions tend to match study queries
// most directly, applications next, concepts are the baseline.
func typeBoost(chunkType classify.ChunkType) float64 {
	switch chunkType {
	case classify.Question:
		return 1.2
	case classify.Application:
		return 1.1
	default:
		return 1.0
	}
}

// keywordBoost rewards lexical overlap between the query and the chunk:
// 0.1 per extracted keyword appearing in the query, plus 0.2 times the
// fraction of query terms found in the document. Capped at 1.5.
func keywordBoost(query, document string, keywords []string) float64 {
	queryLower := strings.ToLower(query)
	docLower := strings.ToLower(document)

	keywordMatches := 0
	for _, keyword := range keywords {
		if strings.Contains(queryLower, keyword) {
			keywordMatches++
		}
	}

	queryTerms := termSet(queryLower)
	docTerms := termSet(docLower)
	overlap := 0
	for term := range queryTerms {
		if _, ok := docTerms[term]; ok {
			overlap++
		}
	}
	termOverlap := float64(overlap) / math.Max(float64(len(queryTerms)), 1)

	boost := 1.0 + float64(keywordMatches)*keywordMatchWeight + termOverlap*termOverlapWeight
	return math.Min(maxKeywordBoost, boost)
}

func termSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
