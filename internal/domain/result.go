package domain

// QueryResultKind classifies the outcome of a retrieval request.
type QueryResultKind string

const (
	QueryResultAnswer   QueryResultKind = "answer"
	QueryResultNotFound QueryResultKind = "not_found"
	QueryResultFailure  QueryResultKind = "failure"
)

// FailureKind identifies which stage of the retrieval pipeline failed.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureSearch     FailureKind = "search"
	FailureGeneration FailureKind = "generation"
)

// QueryResult is the structured outcome of a query. Answer always carries
// user-facing text: the generated answer for QueryResultAnswer, a fixed
// sentinel string otherwise. Err holds the underlying cause for logging
// and is never surfaced to API callers.
type QueryResult struct {
	Kind    QueryResultKind
	Answer  string
	Failure FailureKind
	Matches int
	Err     error
}
