package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string
	Email string
}

// UpdateUserRequest represents the request payload for updating an existing user.
// A nil Name or Email leaves that field unchanged.
type UpdateUserRequest struct {
	ID    string
	Name  *string
	Email *string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID      string
	Deleted bool
}

// SearchUsersRequest represents the request payload for searching users by name or email.
type SearchUsersRequest struct {
	Query string
}

// ListUsersResponse represents the response payload for user listing and search.
type ListUsersResponse struct {
	Users []UserResponse
	Count int
}

// UserResponse is the user shape visible outside the service.
type UserResponse struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
