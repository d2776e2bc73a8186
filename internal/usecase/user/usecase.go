package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-management-service/internal/domain/user"
	apperrors "user-management-service/pkg/errors"
	"user-management-service/pkg/security"
)

const resourceUser = "user"

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
//
// The email existence check and the subsequent save are not atomic: two
// concurrent requests for the same email can both pass the check.
type Usecase struct {
	repo     Repository // Repository for data access
	notifier Notifier   // Notifier for welcome and update messages
	log      Logger     // Logger for structured logging
}

// New creates a new instance of Usecase with the provided repository, notifier, and logger.
func New(r Repository, n Notifier, log Logger) *Usecase {
	return &Usecase{repo: r, notifier: n, log: log}
}

// CreateUser creates a new user after checking email uniqueness and validating the entity.
// A failing welcome notification is logged and does not fail the call.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	exists, err := uc.repo.Exists(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if exists {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewDuplicateEmailError(in.Email)
	}

	u, err := domain.New(in.Name, in.Email)
	if err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	if err := uc.repo.Save(ctx, u); err != nil {
		uc.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	if err := uc.notifier.SendWelcome(ctx, u); err != nil {
		uc.log.Error("failed to send welcome notification", zap.String("id", u.ID), zap.Error(err))
	}

	uc.log.Info("user created", zap.String("id", u.ID))
	return toResponse(u), nil
}

// ListUsers retrieves every stored user.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	uc.log.Info("listing users")

	users, err := uc.repo.ListAll(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	resp := toListResponse(users)
	uc.log.Info("users listed", zap.Int("count", resp.Count))
	return resp, nil
}

// SearchUsers retrieves users whose name or email contains the query, ignoring case.
func (uc *Usecase) SearchUsers(ctx context.Context, in SearchUsersRequest) (*ListUsersResponse, error) {
	uc.log.Info("searching users", zap.String("query", in.Query))

	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		uc.log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		return nil, apperrors.NewValidationError("query", err.Error())
	}

	users, err := uc.repo.Search(ctx, query)
	if err != nil {
		uc.log.Error("failed to search users", zap.String("query", query), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to search users", err)
	}

	resp := toListResponse(users)
	uc.log.Info("users searched", zap.String("query", query), zap.Int("count", resp.Count))
	return resp, nil
}

// GetUser retrieves a user by ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error) {
	uc.log.Info("getting user", zap.String("id", in.ID))

	u, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		uc.log.Warn("user not found", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError(resourceUser, in.ID)
	}

	return toResponse(u), nil
}

// UpdateUser replaces the supplied fields of an existing user.
// The email uniqueness check only runs when the email actually changes.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error) {
	uc.log.Info("updating user",
		zap.String("id", in.ID),
		zap.Bool("name_supplied", in.Name != nil),
		zap.Bool("email_supplied", in.Email != nil),
	)

	current, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if current == nil {
		uc.log.Warn("user not found", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError(resourceUser, in.ID)
	}

	if in.Email != nil && *in.Email != current.Email {
		exists, err := uc.repo.Exists(ctx, *in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.String("email", *in.Email), zap.Error(err))
			return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if exists {
			uc.log.Warn("email already exists", zap.String("email", *in.Email), zap.String("id", in.ID))
			return nil, apperrors.NewDuplicateEmailError(*in.Email)
		}
	}

	updated, err := current.WithUpdatedFields(in.Name, in.Email)
	if err != nil {
		uc.log.Warn("validate failed", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	if err := uc.repo.Save(ctx, updated); err != nil {
		uc.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	if err := uc.notifier.SendUpdateNotice(ctx, updated); err != nil {
		uc.log.Error("failed to send update notification", zap.String("id", updated.ID), zap.Error(err))
	}

	uc.log.Info("user updated", zap.String("id", updated.ID))
	return toResponse(updated), nil
}

// DeleteUser removes a user by ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.String("id", in.ID))

	deleted, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to delete user", err)
	}
	if !deleted {
		uc.log.Warn("user not found", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError(resourceUser, in.ID)
	}

	uc.log.Info("user deleted", zap.String("id", in.ID))
	return &DeleteUserResponse{ID: in.ID, Deleted: true}, nil
}

// toResponse projects a validated user onto the response DTO.
func toResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toListResponse(users []domain.User) *ListUsersResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *toResponse(&users[i])
	}
	return &ListUsersResponse{Users: out, Count: len(out)}
}
