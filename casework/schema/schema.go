package schema

import "time"

type User struct {
	Id uint `gorm:"primaryKey"`

	Username string `gorm:"uniqueIndex"`
	Email    string `gorm:"uniqueIndex"`
	Password []byte

	Role string

	FirstName string
	LastName  string

	IsActive   bool
	LastActive time.Time

	CreatedAt time.Time
}

type CaseLead struct {
	Id uint `gorm:"primaryKey"`

	PatientName string
	Age         *int
	ContactInfo string
	Address     string

	IssueDescription string

	Priority string
	Source   string
	Location string

	Status string

	// Bare id references, no db-level constraint: leads submitted by scrape
	// ingestion have no submitter, and deleting a user must not touch leads.
	SubmittedBy *uint
	ClaimedBy   *uint

	IsPublished bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavedCase is a bookmark of a lead by a user. Existence alone is the signal,
// there is no status. One row per (user, lead).
type SavedCase struct {
	Id uint `gorm:"primaryKey"`

	UserId     uint `gorm:"uniqueIndex:idx_saved_user_lead"`
	CaseLeadId uint `gorm:"uniqueIndex:idx_saved_user_lead"`

	CreatedAt time.Time
}

// ClaimedCase tracks a student's engagement with a lead they claimed. Its
// status advances independently of the lead's own status. References are bare
// ids: deleting a lead does not cascade, joined reads filter the orphans.
type ClaimedCase struct {
	Id uint `gorm:"primaryKey"`

	UserId     uint
	CaseLeadId uint

	Status string

	AppointmentDate *time.Time
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func AllTables() []interface{} {
	return []interface{}{&User{}, &CaseLead{}, &SavedCase{}, &ClaimedCase{}}
}
