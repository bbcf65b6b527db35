package flatten

import (
	"strings"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/call"
)

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
	Created     string `json:"created,omitempty"`
	Active      bool   `json:"active"`
}

func Users(users []call.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = User{
			ID:          u.ID,
			Email:       u.EmailAddress,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Name:        strings.TrimSpace(u.FirstName + " " + u.LastName),
			Title:       u.Title,
			PhoneNumber: u.PhoneNumber,
			ManagerID:   u.ManagerID,
			Created:     formatTime(u.Created),
			Active:      u.Active,
		}
	}
	return out
}
