package user

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

type ListUsersOutput struct {
	Users   []flatten.User `json:"users"`
	Count   int            `json:"count"`
	Message string         `json:"message"`
}

// ListUsers fetches the company's users. A nil repository means the
// adapter is unconfigured.
type ListUsers struct {
	repo domain.Repository
}

func NewListUsers(repo domain.Repository) *ListUsers {
	return &ListUsers{repo: repo}
}

func (uc *ListUsers) Execute(ctx context.Context) (*ListUsersOutput, error) {
	if uc.repo == nil {
		return nil, failure.NotConfigured()
	}

	users, err := uc.repo.ListUsers(ctx)
	if err != nil {
		return nil, domain.Failure(err, map[string]any{"operation": "list_users"})
	}

	flat := flatten.Users(users)
	msg := "No users found"
	if len(flat) > 0 {
		msg = fmt.Sprintf("Retrieved %d users", len(flat))
	}
	return &ListUsersOutput{Users: flat, Count: len(flat), Message: msg}, nil
}
