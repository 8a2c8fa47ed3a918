package models

// User is the users table row. Workers, admins, and the employer all live
// here; the flags tell them apart.
type User struct {
	UserID       int64  `db:"user_id"`
	Username     string `db:"username"`
	DisplayName  string `db:"display_name"`
	PasswordHash string `db:"password_hash"`
	IsAdmin      bool   `db:"is_admin"`
	IsEmployer   bool   `db:"is_employer"`
	AuditFields
}
