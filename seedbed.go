package seedbed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/seedbed/internal/logging"
	"github.com/aretw0/seedbed/pkg/domain"
	"github.com/aretw0/seedbed/pkg/ports"
)

// Session orchestrates one test scenario: it accumulates created-record
// identifiers in arrival order, tracks a root identifier, and exposes the
// chainable step vocabulary. Every step returns the session itself, so a
// scenario reads as one linear pipeline.
//
// A Session is single-threaded by design: it is exclusively owned by one
// scenario and must not be shared between goroutines. Run independent
// sessions concurrently instead.
type Session[ID comparable] struct {
	records *orderedmap.OrderedMap[ID, any]
	rootID  ID

	failer ports.Failer
	logger *slog.Logger
	ctx    context.Context
	hooks  domain.LifecycleHooks
}

// Option defines a functional option for configuring a Session.
type Option[ID comparable] func(*Session[ID])

// WithLogger sets a custom structured logger for the session.
func WithLogger[ID comparable](logger *slog.Logger) Option[ID] {
	return func(s *Session[ID]) {
		s.logger = logger
	}
}

// WithContext sets the context passed to every collaborator call.
func WithContext[ID comparable](ctx context.Context) Option[ID] {
	return func(s *Session[ID]) {
		s.ctx = ctx
	}
}

// WithHooks registers observability hooks fired around each step.
func WithHooks[ID comparable](hooks domain.LifecycleHooks) Option[ID] {
	return func(s *Session[ID]) {
		s.hooks = hooks
	}
}

// New creates a session seeded with a root identifier.
//
// The Failer receives every fatal chain failure: violated preconditions and
// collaborator errors alike. Pass the *testing.T of the scenario so a broken
// chain aborts the test at the failing step.
func New[ID comparable](f ports.Failer, rootID ID, opts ...Option[ID]) *Session[ID] {
	if f == nil {
		panic("seedbed: New requires a non-nil Failer")
	}
	s := &Session[ID]{
		records: orderedmap.New[ID, any](),
		rootID:  rootID,
		failer:  f,
		logger:  logging.NewNop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create invokes the creator and inserts the produced record. The new
// identifier becomes the most recent one.
func (s *Session[ID]) Create(create ports.Creator[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepCreate)
	id, value, err := create(s.ctx)
	if err != nil {
		s.fail("seedbed: create: %v", err)
		return s
	}
	s.insert(domain.StepCreate, id, value)
	done(id)
	return s
}

// CreateRelated invokes the creator with the identifier of the most recently
// created record and inserts the produced child record. Fails if the session
// has not created any record yet.
func (s *Session[ID]) CreateRelated(create ports.RelatedCreator[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepCreateRelated)
	last := s.last(domain.StepCreateRelated)
	id, value, err := create(s.ctx, last.Key)
	if err != nil {
		s.fail("seedbed: create_related: parent %v: %v", last.Key, err)
		return s
	}
	s.insert(domain.StepCreateRelated, id, value)
	done(id)
	return s
}

// CreateRelatedFromValue invokes the creator with the value (not the
// identifier) of the most recently created record. The last value must be
// assignable to the creator's parent type P; a mismatch is fatal.
//
// This is a package-level function because Go methods cannot introduce
// additional type parameters.
func CreateRelatedFromValue[ID comparable, P any](s *Session[ID], create func(ctx context.Context, parent P) (ID, any, error)) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepCreateFromValue)
	last := s.last(domain.StepCreateFromValue)
	parent, ok := last.Value.(P)
	if !ok {
		s.fail("seedbed: create_related_from_value: %v: last record is %T, want %T",
			domain.ErrTypeMismatch, last.Value, *new(P))
		return s
	}
	id, value, err := create(s.ctx, parent)
	if err != nil {
		s.fail("seedbed: create_related_from_value: %v", err)
		return s
	}
	s.insert(domain.StepCreateFromValue, id, value)
	done(id)
	return s
}

// Assert retrieves the live state of the root record through the
// specification, then runs its validators in order. The first failing
// validator aborts the scenario; retrieval happens exactly once per call.
func (s *Session[ID]) Assert(spec ports.Specification[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepAssert)
	value, err := spec.GetRecord(s.ctx, s.rootID)
	if err != nil {
		s.fail("seedbed: assert: get record %v: %v", s.rootID, err)
		return s
	}
	for i, validate := range spec.Validators() {
		if err := validate(value); err != nil {
			s.fail("seedbed: assert: validator %d on record %v: %v", i, s.rootID, err)
			return s
		}
	}
	done(s.rootID)
	return s
}

// If applies branch to the session when cond is true; otherwise the session
// passes through untouched. The condition is a plain bool evaluated by the
// caller, so any side effects of computing it happen exactly once regardless
// of the branch taken.
func (s *Session[ID]) If(cond bool, branch func(*Session[ID]) *Session[ID]) *Session[ID] {
	if !cond {
		return s
	}
	s.helper()
	done := s.begin(domain.StepConditional)
	out := branch(s)
	done(nil)
	return out
}

// Act invokes the action with the identifier of the most recently created
// record. Fails if the session has not created any record yet.
func (s *Session[ID]) Act(act ports.Action[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepAct)
	last := s.last(domain.StepAct)
	if err := act(s.ctx, last.Key); err != nil {
		s.fail("seedbed: act: record %v: %v", last.Key, err)
		return s
	}
	done(last.Key)
	return s
}

// ActOnRoot invokes the action with the current root identifier. The root ID
// is read at call time, so a preceding ReassignRoot is honored.
func (s *Session[ID]) ActOnRoot(act ports.Action[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepActOnRoot)
	if err := act(s.ctx, s.rootID); err != nil {
		s.fail("seedbed: act_on_root: record %v: %v", s.rootID, err)
		return s
	}
	done(s.rootID)
	return s
}

// Delay blocks the scenario for the given duration. Use it for eventual
// consistency in the system under test; the wait is fixed, not adaptive.
func (s *Session[ID]) Delay(d time.Duration) *Session[ID] {
	done := s.begin(domain.StepDelay)
	s.logger.Debug("delaying scenario", "duration", d)
	time.Sleep(d)
	done(nil)
	return s
}

// ReassignRoot points the root identifier at the most recently created
// record. This is the only way to change the root after construction.
func (s *Session[ID]) ReassignRoot() *Session[ID] {
	s.helper()
	done := s.begin(domain.StepReassignRoot)
	last := s.last(domain.StepReassignRoot)
	s.rootID = last.Key
	done(last.Key)
	return s
}

// Cleanup hands the full record map and the current root identifier to the
// cleaner. The session deletes nothing itself and makes no assumption about
// what teardown means for the backing system.
func (s *Session[ID]) Cleanup(clean ports.Cleaner[ID]) *Session[ID] {
	s.helper()
	done := s.begin(domain.StepCleanup)
	if err := clean(s.ctx, s.records, s.rootID); err != nil {
		s.fail("seedbed: cleanup: %v", err)
		return s
	}
	done(s.rootID)
	return s
}

// RootID returns the current root identifier.
func (s *Session[ID]) RootID() ID {
	return s.rootID
}

// LastID returns the identifier of the most recently created record, and
// false when the session has not created any record.
func (s *Session[ID]) LastID() (ID, bool) {
	if pair := s.records.Newest(); pair != nil {
		return pair.Key, true
	}
	var zero ID
	return zero, false
}

// Last returns the handle of the most recently created record, and false
// when the session has not created any record.
func (s *Session[ID]) Last() (domain.Record[ID], bool) {
	if pair := s.records.Newest(); pair != nil {
		return domain.Record[ID]{ID: pair.Key, Value: pair.Value}, true
	}
	return domain.Record[ID]{}, false
}

// Value returns the cached creation-time value for a record ID.
func (s *Session[ID]) Value(id ID) (any, bool) {
	return s.records.Get(id)
}

// Len returns the number of records created in this session.
func (s *Session[ID]) Len() int {
	return s.records.Len()
}

// Records returns the session's live record map, ordered by insertion.
// Callers must treat it as read-only.
func (s *Session[ID]) Records() *orderedmap.OrderedMap[ID, any] {
	return s.records
}

// last returns the most recently inserted record pair, failing the scenario
// when the session is uninitialized or empty. Preconditions are checked
// before any collaborator runs, so a failed step performs no insertion.
func (s *Session[ID]) last(step domain.Step) *orderedmap.Pair[ID, any] {
	s.helper()
	if s.records == nil {
		s.fail("seedbed: %s: session not initialized, use New", step)
		return nil
	}
	pair := s.records.Newest()
	if pair == nil {
		s.fail("seedbed: %s: %v", step, domain.ErrNoRecords)
		return nil
	}
	return pair
}

func (s *Session[ID]) insert(step domain.Step, id ID, value any) {
	s.records.Set(id, value)
	if s.hooks.OnRecordCreated != nil {
		s.hooks.OnRecordCreated(s.ctx, &domain.StepEvent{
			Timestamp: time.Now(),
			Step:      step,
			RecordID:  id,
		})
	}
	s.logger.Debug("record created", "step", string(step), "id", id)
}

// begin fires the step-start hook and returns the matching step-end closure.
// A step that fails mid-flight never reaches its end hook.
func (s *Session[ID]) begin(step domain.Step) func(recordID any) {
	ev := &domain.StepEvent{Timestamp: time.Now(), Step: step}
	if s.hooks.OnStepStart != nil {
		s.hooks.OnStepStart(s.ctx, ev)
	}
	s.logger.Debug("step start", "step", string(step))
	start := time.Now()
	return func(recordID any) {
		ev.RecordID = recordID
		ev.Duration = time.Since(start)
		if s.hooks.OnStepEnd != nil {
			s.hooks.OnStepEnd(s.ctx, ev)
		}
		s.logger.Debug("step end", "step", string(step), "duration", ev.Duration)
	}
}

// fail reports a fatal chain failure. With *testing.T the call never returns.
func (s *Session[ID]) fail(format string, args ...any) {
	s.helper()
	s.logger.Error("scenario failed", "err", fmt.Sprintf(format, args...))
	s.failer.Fatalf(format, args...)
}

func (s *Session[ID]) helper() {
	if h, ok := s.failer.(interface{ Helper() }); ok {
		h.Helper()
	}
}
