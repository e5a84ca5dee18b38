/*
Package ports defines the driven ports (capability contracts) for the seedbed
session engine.

These contracts decouple the chain steps from the domain-specific logic a test
suite plugs in: how records are actually created, fetched, acted upon, and
deleted in the external system under test.

# Key Contracts

  - Creator / RelatedCreator: produce records and their identifiers.
  - Specification: binds a Retriever to an ordered list of Validators.
  - Action: side-effecting operation against one record.
  - Cleaner: teardown, given the full record map and the root ID.
  - RecordStore: persistence interface for the reference adapters.
  - Failer: where fatal chain failures go (*testing.T satisfies it).
*/
package ports
