package model

import "time"

// User represents a row in the `users` table.  Email addresses are
// unique; PasswordHash stores the bcrypt digest, never the plain
// password.  IsVerified starts false and flips to true once the
// email verification flow completes.  CreatedAt doubles as the
// denominator base for the average-completed report, so it must be
// populated on every read.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsVerified   – whether the email address has been confirmed.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsVerified   bool      // users.is_verified
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
