package api

import (
	"time"

	"auth-api/auth"
	"auth-api/httpx"
)

// loginFailedMessage is deliberately identical for unknown emails and
// wrong passwords so the endpoint does not leak which accounts exist.
const loginFailedMessage = "Check your information"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	Email string   `json:"email"`
	Roles []string `json:"role"`
}

type csrfResponse struct {
	Token string `json:"token"`
}

func (h *Handler) ping(c httpx.Context) error {
	return c.JSON(httpx.StatusOK, Message{Message: "pong"})
}

func (h *Handler) login(c httpx.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, loginFailedMessage)
	}

	user, err := h.store.FindActiveUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, loginFailedMessage)
	}
	ok, err := h.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return httpx.HTTPError(httpx.StatusBadRequest, loginFailedMessage)
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		c.Logger().Errorf("issue session token: %v", err)
		return httpx.HTTPError(httpx.StatusInternalError, "could not create session")
	}

	c.SetCookie(auth.NewSessionCookie(token, time.Now()))
	return c.JSON(httpx.StatusOK, loginResponse{
		Token: token,
		Email: user.Email,
		Roles: user.Roles,
	})
}

// logout verifies the session cookie before expiring it: a request
// without a cookie is a bad request, a cookie that does not verify is
// unauthorized. Only an authenticated session gets the deletion cookie.
func (h *Handler) logout(c httpx.Context) error {
	token, err := auth.ExtractSessionToken(c.Request().Header.Get("Cookie"))
	if err != nil {
		return httpx.HTTPError(httpx.StatusBadRequest, "No cookie provided")
	}
	if _, err := h.tokens.Verify(token); err != nil {
		return httpx.HTTPError(httpx.StatusUnauthorized, "Invalid token")
	}

	c.SetCookie(auth.ExpiredSessionCookie(time.Now()))
	return c.JSON(httpx.StatusOK, Message{Message: "Logged out"})
}

// checkToken validates a raw session token passed in the Authorization
// header. The signature alone is not enough: the subject must still
// resolve to an active user, so banned or deleted accounts fail here
// even while their token is otherwise valid.
func (h *Handler) checkToken(c httpx.Context) error {
	raw := c.Request().Header.Get("Authorization")
	claims, err := h.tokens.Verify(raw)
	if err != nil {
		return httpx.HTTPError(httpx.StatusUnauthorized, "Invalid token")
	}
	if _, err := h.store.FindActiveUserByEmail(c.Request().Context(), claims.Subject); err != nil {
		return httpx.HTTPError(httpx.StatusUnauthorized, "Invalid token")
	}
	return c.JSON(httpx.StatusOK, Message{Message: "Token is valid"})
}

// checkCookie validates the session cookie end to end: extraction,
// signature, expiry, and that the subject still resolves to a user
// holding at least one known role.
func (h *Handler) checkCookie(c httpx.Context) error {
	decision := h.access.DecideForCookie(
		c.Request().Context(),
		c.Request().Header.Get("Cookie"),
		[]auth.Role{auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleUser},
	)
	if !decision.Granted() {
		return httpx.HTTPError(httpx.StatusUnauthorized, "Invalid cookie")
	}
	return c.JSON(httpx.StatusOK, Message{Message: "Cookie is valid"})
}

func (h *Handler) csrfToken(c httpx.Context) error {
	token, err := h.csrf.Generate()
	if err != nil {
		c.Logger().Errorf("generate csrf token: %v", err)
		return httpx.HTTPError(httpx.StatusInternalError, "could not create token")
	}
	c.SetCookie(auth.NewCSRFCookie(token, time.Now()))
	return c.JSON(httpx.StatusOK, csrfResponse{Token: token})
}
