package domain

// RetrievedChunk is a single retrieval hit: a chunk plus its similarity
// to the query. Results are ordered by descending similarity and never
// cross owners.
type RetrievedChunk struct {
	// Chunk is the matched passage.
	Chunk Chunk

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64
}

// Retrieval depth per task. Q&A reads fewer, more precise passages;
// study-material generation reads a wider slice of the corpus.
const (
	// AnswerTopK is the retrieval depth for grounded Q&A.
	AnswerTopK = 4

	// StudyTopK is the retrieval depth for quiz, puzzle and
	// question-bank generation.
	StudyTopK = 6
)

// RefusalAnswer is the exact sentence the tutor returns when the answer
// is not present in the owner's notes. The grounded-answer prompt
// instructs the model to emit it verbatim, and the tutor returns it
// directly - without any model call - when retrieval comes back empty.
const RefusalAnswer = "I don't have that in my notes."
