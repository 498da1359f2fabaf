package core

// User identifies an account owning expenses. The id doubles as the opaque
// owner identifier every ledger call is keyed by.
type User struct {
	ID          int64
	Email       string
	DisplayName string
}
