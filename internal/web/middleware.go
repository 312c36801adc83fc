package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/labstack/echo/v4"
)

func (h *Handler) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		duration := time.Since(start)
		req := c.Request()
		res := c.Response()

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(res.Status)).Inc()
		httpDuration.WithLabelValues(req.Method, route).Observe(duration.Seconds())

		h.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"route", route,
			"status", res.Status,
			"duration_ms", duration.Milliseconds(),
			"request_id", res.Header().Get(echo.HeaderXRequestID),
			"remote_addr", c.RealIP(),
		)

		return nil
	}
}

// loadActor resolves the session cookie into the current actor. A bad or stale
// session is dropped and the request continues anonymously.
func (h *Handler) loadActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(h.opts.SessionCookie)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		userID, err := h.tokens.Parse(cookie.Value)
		if err != nil {
			h.log.Debug("dropping invalid session", "error", err)
			h.endSession(c)
			return next(c)
		}

		actor, err := h.blog.UserByID(c.Request().Context(), userID)
		if errors.Is(err, blog.ErrNotFound) {
			h.endSession(c)
			return next(c)
		} else if err != nil {
			return err
		}

		c.Set(actorKey, actor)
		return next(c)
	}
}

// requireLogin sends anonymous visitors to the login page and back afterwards.
func (h *Handler) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if actorFrom(c) == nil {
			return redirect(c, loginURL(c.Request().URL.RequestURI()))
		}
		return next(c)
	}
}

func (h *Handler) startSession(c echo.Context, userID int) error {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.opts.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *Handler) endSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.opts.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
