package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	indexPath    = "/"
	categoryPath = "/category/:slug/"
	profilePath  = "/profile/:username/"
	profileEdit  = "/profile/edit/"

	postCreatePath    = "/posts/create/"
	postDetailPath    = "/posts/:id/"
	postEditPath      = "/posts/:id/edit/"
	postDeletePath    = "/posts/:id/delete/"
	commentAddPath    = "/posts/:id/comment/"
	commentEditPath   = "/posts/:id/edit_comment/:comment_id/"
	commentDeletePath = "/posts/:id/delete_comment/:comment_id/"

	registrationPath = "/auth/registration/"
	logoutPath       = "/auth/logout/"

	aboutPath = "/pages/about/"
	rulesPath = "/pages/rules/"

	healthPath  = "/health"
	metricsPath = "/metrics"

	csrfCookieName = "_csrf"
)

// RegisterRoutes builds the echo instance with every page of the site.
func (h *Handler) RegisterRoutes() (*echo.Echo, error) {
	r, err := newRenderer(h.media)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.Validator = newFormValidator()
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = h.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(h.logRequests)
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(h.opts.BodyLimit))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:" + csrfFormField,
		ContextKey:     csrfContextKey,
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   h.opts.SecureCookie,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(h.loadActor)

	h.registerPostRoutes(e)
	h.registerCommentRoutes(e)
	h.registerUserRoutes(e)
	h.registerStaticPages(e)
	h.registerServiceRoutes(e)

	return e, nil
}

func (h *Handler) registerPostRoutes(e *echo.Echo) {
	e.GET(indexPath, h.Index)
	e.GET(categoryPath, h.CategoryPosts)
	e.GET(postCreatePath, h.CreatePostForm, h.requireLogin)
	e.POST(postCreatePath, h.CreatePost, h.requireLogin)
	e.GET(postDetailPath, h.PostDetail)
	e.GET(postEditPath, h.EditPostForm, h.requireLogin)
	e.POST(postEditPath, h.EditPost, h.requireLogin)
	e.GET(postDeletePath, h.DeletePostForm, h.requireLogin)
	e.POST(postDeletePath, h.DeletePost, h.requireLogin)
}

func (h *Handler) registerCommentRoutes(e *echo.Echo) {
	e.POST(commentAddPath, h.AddComment, h.requireLogin)
	e.GET(commentEditPath, h.EditCommentForm, h.requireLogin)
	e.POST(commentEditPath, h.EditComment, h.requireLogin)
	e.GET(commentDeletePath, h.DeleteCommentForm, h.requireLogin)
	e.POST(commentDeletePath, h.DeleteComment, h.requireLogin)
}

func (h *Handler) registerUserRoutes(e *echo.Echo) {
	e.GET(profileEdit, h.EditProfileForm, h.requireLogin)
	e.POST(profileEdit, h.EditProfile, h.requireLogin)
	e.GET(profilePath, h.Profile)

	e.GET(registrationPath, h.RegistrationForm)
	e.POST(registrationPath, h.Register)
	e.GET(loginPath, h.LoginForm)
	e.POST(loginPath, h.Login)
	e.GET(logoutPath, h.Logout)
	e.POST(logoutPath, h.Logout)
}

func (h *Handler) registerStaticPages(e *echo.Echo) {
	e.GET(aboutPath, h.StaticPage("about.html"))
	e.GET(rulesPath, h.StaticPage("rules.html"))
}

func (h *Handler) registerServiceRoutes(e *echo.Echo) {
	e.GET(healthPath, h.Health)
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))

	if h.opts.MediaDir != "" {
		e.Static(h.opts.MediaPrefix, h.opts.MediaDir)
	}
}
