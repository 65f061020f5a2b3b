package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lucasmoraes/devocional/internal/auth"
	"github.com/lucasmoraes/devocional/internal/entities"
)

// UsersController handles account management endpoints.
type UsersController struct {
	service *auth.Service
}

// NewUsersController creates a new users controller.
func NewUsersController(service *auth.Service) *UsersController {
	return &UsersController{service: service}
}

type userRequest struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Role     entities.UserRole `json:"role"`
}

// List returns all registered users.
func (uc *UsersController) List(c *gin.Context) {
	users, err := uc.service.ListUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	respondOK(c, users)
}

// Get returns a single user by ID.
func (uc *UsersController) Get(c *gin.Context) {
	user, err := uc.service.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	respondOK(c, user)
}

// Create registers a new user account.
func (uc *UsersController) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	role := req.Role
	if role == "" {
		role = entities.UserRoleUser
	}

	user, err := uc.service.CreateUser(req.Name, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondBadRequest(c, "a user with this email already exists")
			return
		}
		if isUserValidationError(err) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create user")
		return
	}

	respondCreated(c, user)
}

// Update changes a user's profile. Omitted fields keep their current values;
// a non-empty password replaces the old one.
func (uc *UsersController) Update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.service.UpdateUser(c.Param("id"), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		if errors.Is(err, auth.ErrUserExists) {
			respondBadRequest(c, "a user with this email already exists")
			return
		}
		if isUserValidationError(err) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	respondOK(c, user)
}

// Delete removes a user together with every devotional they authored.
func (uc *UsersController) Delete(c *gin.Context) {
	removed, err := uc.service.DeleteUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	respondOK(c, gin.H{"deleted": true, "devotionals_removed": removed})
}

// isUserValidationError reports whether err is a client-side input problem.
func isUserValidationError(err error) bool {
	switch {
	case errors.Is(err, auth.ErrNameRequired),
		errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrEmailInvalid),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		return true
	}
	return false
}
