package user

import "context"

// Service defines the interface for user business logic operations.
type Service interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	SearchUsers(ctx context.Context, in SearchUsersRequest) (*ListUsersResponse, error)
}

var _ Service = (*Usecase)(nil)
