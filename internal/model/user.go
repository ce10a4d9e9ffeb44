package model

import "time"

// User represents a row in the `users` table.  Accounts are owned by an
// external registration/authentication service; the engine only reads
// them by id.  Role distinguishes ordinary bidders and sellers from the
// single platform account that accumulates fees; the platform account
// id is resolved from configuration at startup rather than by scanning
// for the role.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Username  – unique display name.
//  Email     – unique email address.
//  Role      – "user" or "admin" (admins see the platform revenue views).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
    ID        uint64    // users.id
    Username  string    // users.username
    Email     string    // users.email
    Role      string    // users.role
    CreatedAt time.Time // users.created_at
    UpdatedAt time.Time // users.updated_at
}
