package toolkit

// Category identifies one member of the closed failure taxonomy. Every
// failed invocation is assigned exactly one category by the dispatcher.
type Category string

const (
	// CategoryUnsupportedOperation — the tool name is not in the registry.
	CategoryUnsupportedOperation Category = "unsupported_operation"

	// CategoryInvalidArgument — one or more required arguments are missing
	// or empty.
	CategoryInvalidArgument Category = "invalid_argument"

	// CategoryResourceNotFound — the store reported that the target entity
	// does not exist.
	CategoryResourceNotFound Category = "resource_not_found"

	// CategoryResourceAlreadyExists — the store reported a create conflict.
	CategoryResourceAlreadyExists Category = "resource_already_exists"

	// CategoryStoreError — any other classified failure from the store.
	CategoryStoreError Category = "store_error"

	// CategoryUnexpectedError — anything that matched none of the above.
	CategoryUnexpectedError Category = "unexpected_error"
)

// Failure carries the category and human-readable message of a failed
// invocation.
type Failure struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Envelope is the uniform result wrapper returned for every invocation.
// Exactly one of Result and Failure is populated: Result for a successful
// invocation, Failure otherwise.
type Envelope struct {
	Result  any      `json:"result,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Success wraps a handler's return value, unmodified.
func Success(result any) Envelope {
	return Envelope{Result: result}
}

// Fail builds a failure envelope with the given category and message.
func Fail(category Category, message string) Envelope {
	return Envelope{Failure: &Failure{Category: category, Message: message}}
}

// OK reports whether the envelope carries a successful result.
func (e Envelope) OK() bool {
	return e.Failure == nil
}

// Payload returns the JSON-encodable value the transport should send to the
// caller: the raw result on success, or an {"error": message} object on
// failure, matching the wire shape clients of this service already depend on.
func (e Envelope) Payload() any {
	if e.Failure != nil {
		return map[string]any{"error": e.Failure.Message}
	}
	return e.Result
}
