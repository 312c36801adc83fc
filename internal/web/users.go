package web

import (
	"errors"
	"net/http"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"
)

const usernameTaken = "A user with that username already exists."

// EditProfileForm handles GET /profile/edit/
func (h *Handler) EditProfileForm(c echo.Context) error {
	form := &profileForm{}
	if err := copier.Copy(form, actorFrom(c)); err != nil {
		return err
	}

	v := h.view(c)
	v.Form = form
	return c.Render(http.StatusOK, "user.html", v)
}

// EditProfile handles POST /profile/edit/
func (h *Handler) EditProfile(c echo.Context) error {
	form := &profileForm{}
	if err := c.Bind(form); err != nil {
		return err
	}

	v := h.view(c)
	v.Form = form

	if err := c.Validate(form); err != nil {
		v.Errors = fieldErrors(err)
		return c.Render(http.StatusOK, "user.html", v)
	}

	var in blog.ProfileInput
	if err := copier.Copy(&in, form); err != nil {
		return err
	}

	user, err := h.blog.UpdateProfile(c.Request().Context(), actorFrom(c), in)
	if errors.Is(err, blog.ErrUsernameTaken) {
		v.Errors = map[string]string{"username": usernameTaken}
		return c.Render(http.StatusOK, "user.html", v)
	} else if err != nil {
		return err
	}

	return redirect(c, redirectTarget(opProfileEdited, user, 0))
}

// RegistrationForm handles GET /auth/registration/
func (h *Handler) RegistrationForm(c echo.Context) error {
	v := h.view(c)
	v.Form = &registrationForm{}
	return c.Render(http.StatusOK, "registration.html", v)
}

// Register handles POST /auth/registration/
func (h *Handler) Register(c echo.Context) error {
	form := &registrationForm{}
	if err := c.Bind(form); err != nil {
		return err
	}

	v := h.view(c)
	v.Form = form

	if err := c.Validate(form); err != nil {
		v.Errors = fieldErrors(err)
		return c.Render(http.StatusOK, "registration.html", v)
	}

	var in blog.RegistrationInput
	if err := copier.Copy(&in, form); err != nil {
		return err
	}

	user, err := h.blog.Register(c.Request().Context(), in)
	if errors.Is(err, blog.ErrUsernameTaken) {
		v.Errors = map[string]string{"username": usernameTaken}
		return c.Render(http.StatusOK, "registration.html", v)
	} else if err != nil {
		return err
	}

	h.log.InfoContext(c.Request().Context(), "user registered", "user_id", user.ID, "username", user.Username)
	return redirect(c, indexPath)
}

// LoginForm handles GET /auth/login/
func (h *Handler) LoginForm(c echo.Context) error {
	v := h.view(c)
	v.Form = &loginForm{}
	v.Next = c.QueryParam("next")
	return c.Render(http.StatusOK, "login.html", v)
}

// Login handles POST /auth/login/
func (h *Handler) Login(c echo.Context) error {
	form := &loginForm{}
	if err := c.Bind(form); err != nil {
		return err
	}

	v := h.view(c)
	v.Form = form
	v.Next = form.Next

	if err := c.Validate(form); err != nil {
		v.Errors = fieldErrors(err)
		return c.Render(http.StatusOK, "login.html", v)
	}

	user, err := h.blog.Authenticate(c.Request().Context(), form.Username, form.Password)
	if errors.Is(err, blog.ErrInvalidCredentials) {
		v.Errors = map[string]string{nonFieldErrors: "Please enter a correct username and password."}
		return c.Render(http.StatusOK, "login.html", v)
	} else if err != nil {
		return err
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}

	return redirect(c, safeNext(form.Next))
}

// Logout handles GET and POST /auth/logout/
func (h *Handler) Logout(c echo.Context) error {
	h.endSession(c)
	return redirect(c, indexPath)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		h.log.Error("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unavailable"})
	}

	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}
