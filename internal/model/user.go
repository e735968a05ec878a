package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column. The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address, stored lower-cased.
//	PasswordHash – bcrypt hash of the user's password. The plain
//	               password is never persisted.
//	FirstName    – given name supplied at registration.
//	LastName     – family name supplied at registration.
//	PhoneNumber  – optional contact number used for SMS delivery.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PhoneNumber  string    // users.phone_number
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
