package qa

// DuplicatePolicy decides what Upsert does when the normalized question is
// already stored.
type DuplicatePolicy string

const (
	// DuplicateUpdate replaces the stored answer in place.
	DuplicateUpdate DuplicatePolicy = "update"
	// DuplicateReject refuses the write with a duplicate_question error.
	DuplicateReject DuplicatePolicy = "reject"
)

// Config holds runtime knobs for the QA store.
type Config struct {
	SimilarityThreshold float64
	MaxSuggestions      int
	DuplicatePolicy     DuplicatePolicy
}
