package domain

// User is a party in the system: the employer account, an admin, or a worker.
// Shifts reference the worker's user id; obligations reference two user ids
// as payer and recipient.
type User struct {
	UserID       int64  `json:"userID"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
	IsEmployer   bool   `json:"isEmployer"` // exactly one row carries this flag
	AuditFields
}
