package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/daniilsolovey/blogicum/internal/auth"
	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/labstack/echo/v4"
)

const (
	actorKey       = "actor"
	csrfContextKey = "csrf"
	csrfFormField  = "csrf"
	loginPath      = "/auth/login/"

	defaultBodyLimit = "10M"
)

// MediaURLs resolves stored image keys to public addresses.
type MediaURLs interface {
	URL(key string) string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	SessionCookie string
	SecureCookie  bool
	// MediaDir is served under MediaPrefix when set (local media driver).
	MediaDir    string
	MediaPrefix string
	// BodyLimit caps request bodies, e.g. "10M"; defaultBodyLimit when empty.
	BodyLimit string
}

type Handler struct {
	blog   *blog.Manager
	tokens *auth.Tokens
	media  MediaURLs
	db     Pinger
	log    *slog.Logger
	opts   Options
}

func NewHandler(manager *blog.Manager, tokens *auth.Tokens, media MediaURLs, db Pinger, log *slog.Logger, opts Options) *Handler {
	if opts.BodyLimit == "" {
		opts.BodyLimit = defaultBodyLimit
	}
	return &Handler{
		blog:   manager,
		tokens: tokens,
		media:  media,
		db:     db,
		log:    log,
		opts:   opts,
	}
}

// viewData is the context of every page template.
type viewData struct {
	Actor *blog.User
	CSRF  string

	Page     *blog.PostPage
	PageURL  string
	Category *blog.Category
	Profile  *blog.User
	Post     *blog.Post
	Comments []blog.Comment
	Comment  *blog.Comment

	Categories []blog.Category
	Locations  []blog.Location
	Form       any
	Errors     map[string]string
	Deleting   bool
	Next       string

	Status  int
	Message string
}

func (h *Handler) view(c echo.Context) *viewData {
	v := &viewData{Actor: actorFrom(c)}
	if token, ok := c.Get(csrfContextKey).(string); ok {
		v.CSRF = token
	}
	return v
}

func actorFrom(c echo.Context) *blog.User {
	actor, _ := c.Get(actorKey).(*blog.User)
	return actor
}

// handleError is the echo HTTPErrorHandler: blog.ErrNotFound and echo 4xx errors render
// the error page with their status, everything else is logged and rendered as 500.
func (h *Handler) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	switch {
	case errors.Is(err, blog.ErrNotFound):
		status = http.StatusNotFound
		message = "Page not found"
	case errors.As(err, &he):
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		message = "Internal server error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	v := h.view(c)
	v.Status = status
	v.Message = message
	if rerr := c.Render(status, "error.html", v); rerr != nil {
		h.log.Error("failed to render error page", "error", rerr)
		_ = c.String(status, message)
	}
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, blog.ErrNotFound
	}
	return id, nil
}

func postURL(postID int) string {
	return "/posts/" + strconv.Itoa(postID) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func categoryURL(slug string) string {
	return "/category/" + url.PathEscape(slug) + "/"
}

func loginURL(next string) string {
	return loginPath + "?next=" + url.QueryEscape(next)
}

type operation int

const (
	opPostCreated operation = iota
	opPostEdited
	opPostDeleted
	opCommentChanged
	opProfileEdited
	opNotAuthor
)

// redirectTarget is where a mutation handler sends the actor afterwards.
// A non-author is always sent back to the post detail.
func redirectTarget(op operation, actor *blog.User, postID int) string {
	switch op {
	case opPostCreated, opProfileEdited:
		return profileURL(actor.Username)
	case opPostDeleted:
		return "/"
	default:
		return postURL(postID)
	}
}

func redirect(c echo.Context, target string) error {
	return c.Redirect(http.StatusFound, target)
}

// safeNext accepts only local absolute paths as a post-login destination.
func safeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/"
	}
	return next
}
