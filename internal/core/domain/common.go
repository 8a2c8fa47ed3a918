package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     int64     `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy int64     `json:"lastUpdatedBy"` // UserID reference
}

// Actor identifies the authenticated caller of a service operation.
// Non-admin actors are scoped to shifts and obligations of their own user id.
type Actor struct {
	UserID int64
	Admin  bool
}

// CanAccessWorker reports whether the actor may read or mutate data that
// belongs to the given worker.
func (a Actor) CanAccessWorker(workerID int64) bool {
	return a.Admin || a.UserID == workerID
}
