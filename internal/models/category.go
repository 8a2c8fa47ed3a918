package models

// Category is the categories table row.
type Category struct {
	CategoryID int64  `db:"category_id"`
	Name       string `db:"name"`
	Class      string `db:"class"`
	AuditFields
}
