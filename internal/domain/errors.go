package domain

import "fmt"

// Kind categorizes a pipeline failure so callers can choose a user-visible
// response without inspecting collaborator internals.
type Kind string

const (
	// KindIngestion covers unreadable, unsupported or empty documents.
	KindIngestion Kind = "ingestion"
	// KindEmbedding covers failures of the embedding capability during
	// ingestion or retrieval.
	KindEmbedding Kind = "embedding"
	// KindGeneration covers failures or timeouts of the generation capability.
	KindGeneration Kind = "generation"
	// KindNoSession signals a question from a user with no ready session.
	KindNoSession Kind = "no_session"
)

// Error is a tagged failure raised at the boundary of the operation that
// invoked an external collaborator. No raw collaborator error crosses a
// pipeline boundary without being wrapped into one of these.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same Kind, so callers can test with errors.Is
// against a kind sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IngestionError reports a document that could not be ingested.
func IngestionError(message string, err error) *Error {
	return &Error{Kind: KindIngestion, Message: message, Err: err}
}

// EmbeddingError reports a failed embedding call.
func EmbeddingError(message string, err error) *Error {
	return &Error{Kind: KindEmbedding, Message: message, Err: err}
}

// GenerationError reports a failed or timed-out generation call.
func GenerationError(message string, err error) *Error {
	return &Error{Kind: KindGeneration, Message: message, Err: err}
}

// NoSessionError reports a question arriving before any document was ingested.
func NoSessionError(userID string) *Error {
	return &Error{Kind: KindNoSession, Message: "no active session for user " + userID}
}

// IsKind reports whether err is a tagged *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
