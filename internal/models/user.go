package models

// User is a member identity. Two users are equal when their names are
// equal (case-sensitive), which makes User usable as a map key.
type User struct {
	// Name is the unique identity of the user.
	Name string
}

// NewUser returns the user identified by name.
func NewUser(name string) User {
	return User{Name: name}
}

// String returns the user's name.
func (u User) String() string {
	return u.Name
}
