package domain

import "errors"

// ErrNoRecords is returned when a step that depends on a previously created
// record runs against a session that has not created any record yet.
var ErrNoRecords = errors.New("no records created in session")

// ErrTypeMismatch is returned when the last created record's value does not
// match the type a related-record creator expects.
var ErrTypeMismatch = errors.New("record value type mismatch")

// ErrRecordNotFound is returned when a record ID cannot be found in a store.
var ErrRecordNotFound = errors.New("record not found")
