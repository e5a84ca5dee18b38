package ports

import (
	"context"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Creator produces a brand-new record and its identifier.
// It may perform arbitrary I/O; failures propagate to the session unmodified.
type Creator[ID comparable] func(ctx context.Context) (ID, any, error)

// RelatedCreator produces a child record given the identifier of the
// most-recently-created record.
type RelatedCreator[ID comparable] func(ctx context.Context, parentID ID) (ID, any, error)

// Retriever fetches the current live state of a record. Assertions always
// re-read through a Retriever rather than trusting the value cached at
// creation time.
type Retriever[ID comparable] func(ctx context.Context, id ID) (any, error)

// Validator checks exactly one property of a record value.
// Composability of specifications depends on each instance checking only
// one condition.
type Validator func(value any) error

// Action performs a side-effecting operation against a single record.
type Action[ID comparable] func(ctx context.Context, id ID) error

// Cleaner tears down everything a scenario created. It receives the full
// ordered record map and the current root identifier; the session itself
// deletes nothing.
type Cleaner[ID comparable] func(ctx context.Context, records *orderedmap.OrderedMap[ID, any], rootID ID) error

// Specification binds a record-retrieval strategy to an ordered list of
// single-assertion validators. The session retrieves once, then runs each
// validator in order, stopping at the first failure.
type Specification[ID comparable] interface {
	// GetRecord fetches the live state of the record under test.
	GetRecord(ctx context.Context, id ID) (any, error)

	// Validators returns the checks to run, in order.
	Validators() []Validator
}

// Failer is the sink for fatal session failures. *testing.T and testing.TB
// satisfy it; non-test hosts supply their own (log and exit, panic, ...).
// Fatalf must not return control to the session.
type Failer interface {
	Fatalf(format string, args ...any)
}
