// Package user defines the account model used throughout the application,
// particularly for session handling and listing ownership.
package user

// User represents an account, either registered through the users registry
// or synthesized by a simulated login.
// Email is the identity key for lookup and registration uniqueness;
// ID is an opaque stable identifier referenced by Property.OwnerID.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}
