package domain

// Record pairs an identifier with the value a creator produced for it.
// It is ephemeral: creators hand it to the session, which folds it into its
// ordered record map immediately.
type Record[ID comparable] struct {
	ID    ID
	Value any
}
