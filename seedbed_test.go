package seedbed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/seedbed"
	"github.com/aretw0/seedbed/internal/testutils"
	"github.com/aretw0/seedbed/pkg/adapters/memory"
	"github.com/aretw0/seedbed/pkg/ports"
)

// sequenceCreator returns a Creator producing ids r-1, r-2, ... with the id
// echoed in the value, so tests can verify who-created-what.
func sequenceCreator(counter *int) ports.Creator[string] {
	return func(ctx context.Context) (string, any, error) {
		*counter++
		id := fmt.Sprintf("r-%d", *counter)
		return id, map[string]any{"id": id}, nil
	}
}

func TestCreate_TracksMostRecent(t *testing.T) {
	var n int
	s := seedbed.New(t, "root-0")

	s.Create(sequenceCreator(&n)).
		Create(sequenceCreator(&n)).
		Create(sequenceCreator(&n))

	last, ok := s.LastID()
	require.True(t, ok)
	assert.Equal(t, "r-3", last)
	assert.Equal(t, 3, s.Len())

	// The root is late-bound: creating records does not touch it.
	assert.Equal(t, "root-0", s.RootID())
}

func TestCreateRelated_ReceivesLastInsertedID(t *testing.T) {
	var n int
	var parents []string

	s := seedbed.New(t, "root-0").Create(sequenceCreator(&n))

	related := func(ctx context.Context, parentID string) (string, any, error) {
		parents = append(parents, parentID)
		id := fmt.Sprintf("child-of-%s", parentID)
		return id, map[string]any{"parent": parentID}, nil
	}

	s.CreateRelated(related).CreateRelated(related)

	assert.Equal(t, []string{"r-1", "child-of-r-1"}, parents)

	last, ok := s.LastID()
	require.True(t, ok)
	assert.Equal(t, "child-of-child-of-r-1", last)
}

func TestCreateRelated_EmptySession_FailsWithoutInsertion(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	rec.Capture(func() {
		s.CreateRelated(func(ctx context.Context, parentID string) (string, any, error) {
			t.Fatal("creator must not run when the precondition fails")
			return "", nil, nil
		})
	})

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "no records created")
	assert.Equal(t, 0, s.Len(), "a failed step must not insert anything")
}

func TestAct_EmptySession_Fails(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	rec.Capture(func() {
		s.Act(func(ctx context.Context, id string) error { return nil })
	})

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "no records created")
}

func TestActOnRoot_WorksWithoutRecords(t *testing.T) {
	var acted []string
	seedbed.New(t, "root-0").ActOnRoot(func(ctx context.Context, id string) error {
		acted = append(acted, id)
		return nil
	})

	assert.Equal(t, []string{"root-0"}, acted)
}

func TestAct_UsesLastInsertedID(t *testing.T) {
	var n int
	var acted []string

	seedbed.New(t, "root-0").
		Create(sequenceCreator(&n)).
		Create(sequenceCreator(&n)).
		Act(func(ctx context.Context, id string) error {
			acted = append(acted, id)
			return nil
		})

	assert.Equal(t, []string{"r-2"}, acted)
}

func TestReassignRoot_PointsAtLastInserted(t *testing.T) {
	var n int
	s := seedbed.New(t, "root-0").
		Create(sequenceCreator(&n)).
		Create(sequenceCreator(&n)).
		ReassignRoot()

	assert.Equal(t, "r-2", s.RootID())
	assert.Equal(t, 2, s.Len())

	// Idempotent: same last record, same root, no new entries.
	s.ReassignRoot()
	assert.Equal(t, "r-2", s.RootID())
	assert.Equal(t, 2, s.Len())
}

func TestReassignRoot_EmptySession_Fails(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	rec.Capture(func() { s.ReassignRoot() })

	assert.True(t, rec.Failed)
	assert.Equal(t, "root-0", s.RootID(), "a failed reassign must not change the root")
}

// countingSpec implements ports.Specification and counts retrievals.
type countingSpec struct {
	retrievals int
	value      any
	err        error
	validators []ports.Validator
}

func (c *countingSpec) GetRecord(ctx context.Context, id string) (any, error) {
	c.retrievals++
	return c.value, c.err
}

func (c *countingSpec) Validators() []ports.Validator {
	return c.validators
}

func TestAssert_RetrievesOnceAndRunsValidatorsInOrder(t *testing.T) {
	var ran []int
	spec := &countingSpec{
		value: map[string]any{"status": "shipped"},
		validators: []ports.Validator{
			func(v any) error { ran = append(ran, 0); return nil },
			func(v any) error { ran = append(ran, 1); return nil },
			func(v any) error { ran = append(ran, 2); return nil },
		},
	}

	s := seedbed.New(t, "root-0").Assert(spec)

	assert.Equal(t, 1, spec.retrievals, "Assert must retrieve exactly once")
	assert.Equal(t, []int{0, 1, 2}, ran)

	// A passing assert keeps the chain alive.
	s.ActOnRoot(func(ctx context.Context, id string) error { return nil })
}

func TestAssert_StopsAtFirstFailingValidator(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	var ran []int
	spec := &countingSpec{
		value: map[string]any{"status": "open"},
		validators: []ports.Validator{
			func(v any) error { ran = append(ran, 0); return nil },
			func(v any) error { ran = append(ran, 1); return errors.New("status should be shipped") },
			func(v any) error { ran = append(ran, 2); return nil },
		},
	}

	s := seedbed.New[string](rec, "root-0")
	rec.Capture(func() { s.Assert(spec) })

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "status should be shipped")
	assert.Equal(t, []int{0, 1}, ran, "validators after the first failure must not run")
}

func TestAssert_ReadsRootAtCallTime(t *testing.T) {
	var n int
	var fetched []string
	spec := seedbed.NewSpec(
		func(ctx context.Context, id string) (any, error) {
			fetched = append(fetched, id)
			return map[string]any{}, nil
		},
	)

	seedbed.New(t, "root-0").
		Assert(spec).
		Create(sequenceCreator(&n)).
		ReassignRoot().
		Assert(spec)

	assert.Equal(t, []string{"root-0", "r-1"}, fetched)
}

func TestCollaboratorError_PropagatesUnmodified(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	rec.Capture(func() {
		s.Create(func(ctx context.Context) (string, any, error) {
			return "", nil, errors.New("connection refused")
		})
	})

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "connection refused")
	assert.Equal(t, 0, s.Len())
}

type customer struct {
	ID   string
	Name string
}

func TestCreateRelatedFromValue_PassesLastValue(t *testing.T) {
	s := seedbed.New(t, "root-0").
		Create(func(ctx context.Context) (string, any, error) {
			return "c-1", customer{ID: "c-1", Name: "Ada"}, nil
		})

	s = seedbed.CreateRelatedFromValue(s, func(ctx context.Context, parent customer) (string, any, error) {
		assert.Equal(t, "Ada", parent.Name)
		return "o-1", map[string]any{"customer": parent.ID}, nil
	})

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "o-1", last.ID)
	assert.Equal(t, map[string]any{"customer": "c-1"}, last.Value)
}

func TestCreateRelatedFromValue_TypeMismatch_Fails(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	s.Create(func(ctx context.Context) (string, any, error) {
		return "c-1", "just a string", nil
	})

	rec.Capture(func() {
		seedbed.CreateRelatedFromValue(s, func(ctx context.Context, parent customer) (string, any, error) {
			t.Fatal("creator must not run on a type mismatch")
			return "", nil, nil
		})
	})

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "type mismatch")
	assert.Equal(t, 1, s.Len(), "a failed step must not insert anything")
}

func TestCreateRelatedFromValue_EmptySession_Fails(t *testing.T) {
	rec := &testutils.FatalRecorder{}
	s := seedbed.New[string](rec, "root-0")

	rec.Capture(func() {
		seedbed.CreateRelatedFromValue(s, func(ctx context.Context, parent customer) (string, any, error) {
			return "", nil, nil
		})
	})

	assert.True(t, rec.Failed)
	assert.Contains(t, rec.Message, "no records created")
}

func TestCleanup_ReceivesFullMapAndRoot(t *testing.T) {
	var n int
	var gotRoot string
	var gotIDs []string

	seedbed.New(t, "root-0").
		Create(sequenceCreator(&n)).
		Create(sequenceCreator(&n)).
		ReassignRoot().
		Cleanup(func(ctx context.Context, records *orderedmap.OrderedMap[string, any], rootID string) error {
			gotRoot = rootID
			for pair := records.Oldest(); pair != nil; pair = pair.Next() {
				gotIDs = append(gotIDs, pair.Key)
			}
			return nil
		})

	assert.Equal(t, "r-2", gotRoot)
	assert.Equal(t, []string{"r-1", "r-2"}, gotIDs)
}

// Independent sessions may run concurrently against a shared store; the
// engine holds no global state, so isolation is down to distinct IDs.
func TestScenario_ParallelSessions(t *testing.T) {
	store := memory.NewStore[string]()

	for i := 0; i < 4; i++ {
		i := i
		t.Run(fmt.Sprintf("session-%d", i), func(t *testing.T) {
			t.Parallel()

			id := fmt.Sprintf("rec-%d", i)
			s := seedbed.New(t, "unset").
				Create(func(ctx context.Context) (string, any, error) {
					return id, map[string]any{"n": i}, store.Put(ctx, id, map[string]any{"n": i})
				}).
				ReassignRoot().
				Assert(seedbed.NewSpec(
					seedbed.StoreRetriever[string](store),
					func(v any) error {
						if v == nil {
							return errors.New("record missing")
						}
						return nil
					},
				)).
				Cleanup(seedbed.StoreCleaner[string](store))

			assert.Equal(t, id, s.RootID())
		})
	}
}

func TestDelay_BlocksForDuration(t *testing.T) {
	start := time.Now()
	seedbed.New(t, "root-0").Delay(60 * time.Millisecond)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestNew_NilFailer_Panics(t *testing.T) {
	assert.Panics(t, func() {
		seedbed.New[string](nil, "root-0")
	})
}

// Full scenario against the in-memory store: create a parent and a child,
// promote the child to root, mutate it, assert on its live state, clean up.
func TestScenario_EndToEnd(t *testing.T) {
	store := memory.NewStore[string]()
	ctx := context.Background()

	type order struct {
		ID     string
		Status string
	}

	s := seedbed.New(t, "customer-0").
		Create(func(ctx context.Context) (string, any, error) {
			c := customer{ID: "c-1", Name: "Ada"}
			return c.ID, c, store.Put(ctx, c.ID, c)
		}).
		CreateRelated(func(ctx context.Context, customerID string) (string, any, error) {
			o := order{ID: "o-1", Status: "open"}
			return o.ID, o, store.Put(ctx, o.ID, o)
		}).
		ReassignRoot().
		Act(func(ctx context.Context, id string) error {
			o := order{ID: id, Status: "shipped"}
			return store.Put(ctx, id, o)
		}).
		Assert(seedbed.NewSpec(
			seedbed.StoreRetriever[string](store),
			func(v any) error {
				o, ok := v.(order)
				if !ok {
					return fmt.Errorf("expected order, got %T", v)
				}
				if o.Status != "shipped" {
					return fmt.Errorf("expected shipped, got %q", o.Status)
				}
				return nil
			},
		)).
		Cleanup(seedbed.StoreCleaner[string](store))

	assert.Equal(t, "o-1", s.RootID())

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "cleanup should have deleted every created record")
}
