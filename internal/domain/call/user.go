package call

import "time"

// User is a member of the Gong company account.
type User struct {
	ID           string
	EmailAddress string
	FirstName    string
	LastName     string
	Title        string
	PhoneNumber  string
	ManagerID    string
	Created      *time.Time
	Active       bool
}
