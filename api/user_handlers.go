package api

import (
	"errors"
	"strings"

	"auth-api/auth"
	"auth-api/httpx"
)

type newUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"role"`
}

type updatePasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

// userView is the outward shape of a user record. The password hash
// never leaves the server.
type userView struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"role"`
}

func (h *Handler) saveUser(c httpx.Context) error {
	var req newUserRequest
	if err := c.Bind(&req); err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return httpx.HTTPError(httpx.StatusBadRequest, "Email is required")
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, "Password is required")
	}

	roles := auth.RoleStrings(auth.ParseRoles(req.Roles))
	if len(roles) == 0 {
		roles = []string{auth.RoleUser.String()}
	}

	user, err := h.store.SaveUser(c.Request().Context(), req.Email, hash, roles)
	if err != nil {
		if errors.Is(err, auth.ErrEmailInUse) {
			return httpx.HTTPError(httpx.StatusConflict, "Email already in use")
		}
		c.Logger().Errorf("save user: %v", err)
		return httpx.HTTPError(httpx.StatusInternalError, "Could not create user")
	}
	return c.JSON(httpx.StatusCreated, userView{ID: user.ID, Email: user.Email, Roles: user.Roles})
}

func (h *Handler) findUser(c httpx.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return httpx.HTTPError(httpx.StatusBadRequest, "Email is required")
	}
	user, err := h.store.FindActiveUserByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return httpx.HTTPError(httpx.StatusNotFound, "User not found")
		}
		c.Logger().Errorf("find user: %v", err)
		return httpx.HTTPError(httpx.StatusInternalError, "Could not find user")
	}
	return c.JSON(httpx.StatusOK, userView{ID: user.ID, Email: user.Email, Roles: user.Roles})
}

func (h *Handler) updatePassword(c httpx.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, "Invalid request body")
	}
	user, err := h.store.FindActiveUserByEmail(c.Request().Context(), strings.TrimSpace(req.Email))
	if err != nil {
		return h.userWriteError(c, "update password", err)
	}
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, "Password is required")
	}
	if err := h.store.UpdatePassword(c.Request().Context(), user.ID, hash); err != nil {
		return h.userWriteError(c, "update password", err)
	}
	return c.JSON(httpx.StatusOK, Message{Message: "Password updated"})
}

// banUser soft-deletes the account so it can later be restored.
func (h *Handler) banUser(c httpx.Context) error {
	email, err := h.targetEmail(c)
	if err != nil {
		return err
	}
	user, err := h.store.FindActiveUserByEmail(c.Request().Context(), email)
	if err != nil {
		return h.userWriteError(c, "ban user", err)
	}
	if err := h.store.SoftDeleteUser(c.Request().Context(), user.ID); err != nil {
		return h.userWriteError(c, "ban user", err)
	}
	return c.JSON(httpx.StatusOK, Message{Message: "User banned"})
}

func (h *Handler) unbanUser(c httpx.Context) error {
	email, err := h.targetEmail(c)
	if err != nil {
		return err
	}
	user, err := h.store.FindBannedUserByEmail(c.Request().Context(), email)
	if err != nil {
		return h.userWriteError(c, "unban user", err)
	}
	if err := h.store.RestoreUser(c.Request().Context(), user.ID); err != nil {
		return h.userWriteError(c, "unban user", err)
	}
	return c.JSON(httpx.StatusOK, Message{Message: "User unbanned"})
}

// hardDeleteUser removes the row whether or not the account is banned.
func (h *Handler) hardDeleteUser(c httpx.Context) error {
	email, err := h.targetEmail(c)
	if err != nil {
		return err
	}
	user, err := h.store.FindActiveUserByEmail(c.Request().Context(), email)
	if errors.Is(err, auth.ErrUserNotFound) {
		user, err = h.store.FindBannedUserByEmail(c.Request().Context(), email)
	}
	if err != nil {
		return h.userWriteError(c, "delete user", err)
	}
	if err := h.store.HardDeleteUser(c.Request().Context(), user.ID); err != nil {
		return h.userWriteError(c, "delete user", err)
	}
	return c.JSON(httpx.StatusOK, Message{Message: "User deleted"})
}

// userProgression returns the cumulative registration count per day.
func (h *Handler) userProgression(c httpx.Context) error {
	points, err := h.store.UserProgression(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("user progression: %v", err)
		return httpx.HTTPError(httpx.StatusInternalError, "Could not load progression")
	}
	if points == nil {
		points = []auth.UserProgression{}
	}
	return c.JSON(httpx.StatusOK, points)
}

// targetEmail reads the subject email from the query string, falling
// back to a JSON body for clients that send one.
func (h *Handler) targetEmail(c httpx.Context) (string, error) {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		var req emailRequest
		if err := c.Bind(&req); err == nil {
			email = strings.TrimSpace(req.Email)
		}
	}
	if email == "" {
		return "", httpx.HTTPError(httpx.StatusBadRequest, "Email is required")
	}
	return email, nil
}

func (h *Handler) userWriteError(c httpx.Context, op string, err error) error {
	if errors.Is(err, auth.ErrUserNotFound) {
		return httpx.HTTPError(httpx.StatusNotFound, "User not found")
	}
	c.Logger().Errorf("%s: %v", op, err)
	return httpx.HTTPError(httpx.StatusInternalError, "Operation failed")
}
