/*
Package seedbed is a fluent orchestration engine for stateful, multi-step test
scenarios against external record stores (databases, CRMs, APIs).

Integration-style tests commonly need to create a chain of related records,
track the identifiers produced, act on some of them, assert that a resulting
record satisfies a set of composable checks, and clean up afterward. Seedbed
keeps each of those concerns a separately reusable unit and hides the
identifier bookkeeping: the session knows which record was created last, which
record is the root of the scenario, and which records exist overall.

# Concept

A Session is an ordered map from identifier to created record plus a
distinguished root identifier. Every step mutates the session and returns it,
so a scenario reads as one linear chain. The session contains no domain logic,
no I/O, and no persistence code itself: creation, retrieval, actions,
assertions, and cleanup are capabilities the test suite plugs in (see package
pkg/ports). Failures — violated preconditions and collaborator errors alike —
are fatal to the scenario and never retried or swallowed.

# Usage

	func TestOrderLifecycle(t *testing.T) {
		store := memory.NewStore[string]()

		seedbed.New(t, "customer-0").
			Create(func(ctx context.Context) (string, any, error) {
				c := Customer{ID: "c-1", Name: "Ada"}
				return c.ID, c, store.Put(ctx, c.ID, c)
			}).
			CreateRelated(func(ctx context.Context, customerID string) (string, any, error) {
				o := Order{ID: "o-1", CustomerID: customerID}
				return o.ID, o, store.Put(ctx, o.ID, o)
			}).
			ReassignRoot().
			Act(shipOrder(store)).
			Assert(seedbed.NewSpec(
				seedbed.StoreRetriever[string](store),
				orderIsShipped,
			)).
			Cleanup(seedbed.StoreCleaner[string](store))
	}

Reference RecordStore adapters live under pkg/adapters (in-memory and Redis);
Prometheus instrumentation for long-running suites lives in pkg/observability.

Sessions are single-threaded by design. Run independent sessions concurrently
for cross-scenario parallelism; coordinating collisions in the external system
is the collaborators' concern, not the engine's.
*/
package seedbed
