package handler

import (
	"context"
	"net/http"
	"strconv"
	"user-management-api/common"
	"user-management-api/model"

	"github.com/google/uuid"
)

// IUserService is the part of service.UserService the handlers depend on.
type IUserService interface {
	Register(ctx context.Context, req model.UserCreate) (*model.UserResponse, error)
	Create(ctx context.Context, req model.UserCreate) (*model.UserResponse, error)
	Get(ctx context.Context, id string) (*model.UserResponse, error)
	List(ctx context.Context, skip, limit int) (*model.UserListResponse, error)
	Update(ctx context.Context, id string, req model.UserUpdate) (*model.UserResponse, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error)
}

type UserHandler struct {
	service IUserService
}

func NewUserHandler(service IUserService) *UserHandler {
	return &UserHandler{service: service}
}

// userIDFromPath reads and validates the {id} path segment.
func userIDFromPath(r *http.Request) (string, *common.AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", common.NewValidationAppError(&common.ValidationError{Field: "id", Reason: "value is not a valid uuid"})
	}
	return id.String(), nil
}

func queryInt(r *http.Request, name string, def int) (int, *common.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, common.NewValidationAppError(&common.ValidationError{Field: name, Reason: "value is not a valid non-negative integer"})
	}
	return v, nil
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account. The first registered account becomes an administrator.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.UserCreate true "New user"
// @Success      201  {object}  model.UserResponse
// @Failure      400  {object}  common.AppError "Malformed JSON body"
// @Failure      409  {object}  common.AppError "Email or nickname already exists"
// @Failure      422  {object}  common.AppError "Validation failure"
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UserCreate
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		return mapServiceError(err, "Could not register user")
	}

	respondJSON(w, http.StatusCreated, user)
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges credentials for a bearer access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Credentials"
// @Success      200  {object}  model.TokenResponse
// @Failure      401  {object}  common.AppError "Incorrect email or password"
// @Failure      403  {object}  common.AppError "Account locked"
// @Failure      422  {object}  common.AppError "Validation failure"
// @Router       /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		return mapServiceError(err, "Could not log in")
	}

	respondJSON(w, http.StatusOK, token)
	return nil
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.UserResponse
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Not authenticated", nil)
	}
	// A signed token can still carry a subject that is not a user id.
	if _, err := uuid.Parse(identity.UserID); err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		return common.NewAppError(http.StatusUnauthorized, "Invalid token claims", nil)
	}

	user, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve user")
	}

	respondJSON(w, http.StatusOK, user)
	return nil
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query int false "Number of users to skip" default(0)
// @Param        limit  query int false "Page size (max 100)" default(10)
// @Success      200  {object}  model.UserListResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	skip, appErr := queryInt(r, "skip", 0)
	if appErr != nil {
		return appErr
	}
	limit, appErr := queryInt(r, "limit", 10)
	if appErr != nil {
		return appErr
	}

	users, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		return mapServiceError(err, "Could not retrieve users")
	}

	respondJSON(w, http.StatusOK, users)
	return nil
}

// CreateUser godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body model.UserCreate true "New user"
// @Success      201  {object}  model.UserResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      409  {object}  common.AppError
// @Failure      422  {object}  common.AppError
// @Router       /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UserCreate
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		return mapServiceError(err, "Could not create user")
	}

	respondJSON(w, http.StatusCreated, user)
	return nil
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID (UUID)"
// @Success      200  {object}  model.UserResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := userIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		return mapServiceError(err, "Could not retrieve user")
	}

	respondJSON(w, http.StatusOK, user)
	return nil
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Partial update; at least one field must be provided.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string           true "User ID (UUID)"
// @Param        user body model.UserUpdate true "Fields to change"
// @Success      200  {object}  model.UserResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      422  {object}  common.AppError
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := userIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.UserUpdate
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		return mapServiceError(err, "Could not update user")
	}

	respondJSON(w, http.StatusOK, user)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id path string true "User ID (UUID)"
// @Success      204
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := userIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		return mapServiceError(err, "Could not delete user")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
