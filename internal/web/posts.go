package web

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/daniilsolovey/blogicum/internal/media"
	"github.com/go-pg/urlstruct"
	"github.com/labstack/echo/v4"
)

type feedQuery struct {
	Page int
}

const lastPageParam = "last"

// pageNumber reads ?page=N. An empty value is the first page and "last" the last one;
// any other value that is not a number is a missing page.
func pageNumber(c echo.Context) (int, error) {
	switch c.QueryParam("page") {
	case "":
		return 1, nil
	case lastPageParam:
		return blog.LastPage, nil
	}

	q := feedQuery{Page: 1}
	if err := urlstruct.Unmarshal(c.Request().Context(), c.QueryParams(), &q); err != nil {
		return 0, blog.ErrNotFound
	}
	return q.Page, nil
}

// Index handles GET /
func (h *Handler) Index(c echo.Context) error {
	page, err := pageNumber(c)
	if err != nil {
		return err
	}

	result, err := h.blog.Feed(c.Request().Context(), page)
	if err != nil {
		return err
	}

	v := h.view(c)
	v.Page = result
	v.PageURL = indexPath
	return c.Render(http.StatusOK, "index.html", v)
}

// CategoryPosts handles GET /category/:slug/
func (h *Handler) CategoryPosts(c echo.Context) error {
	page, err := pageNumber(c)
	if err != nil {
		return err
	}

	category, result, err := h.blog.CategoryFeed(c.Request().Context(), c.Param("slug"), page)
	if err != nil {
		return err
	}

	v := h.view(c)
	v.Category = category
	v.Page = result
	v.PageURL = categoryURL(category.Slug)
	return c.Render(http.StatusOK, "category.html", v)
}

// Profile handles GET /profile/:username/
func (h *Handler) Profile(c echo.Context) error {
	page, err := pageNumber(c)
	if err != nil {
		return err
	}

	profile, result, err := h.blog.ProfileFeed(c.Request().Context(), actorFrom(c), c.Param("username"), page)
	if err != nil {
		return err
	}

	v := h.view(c)
	v.Profile = profile
	v.Page = result
	v.PageURL = profileURL(profile.Username)
	return c.Render(http.StatusOK, "profile.html", v)
}

// PostDetail handles GET /posts/:id/
func (h *Handler) PostDetail(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	post, comments, err := h.blog.PostDetail(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}

	v := h.view(c)
	v.Post = post
	v.Comments = comments
	v.Form = &commentForm{}
	return c.Render(http.StatusOK, "detail.html", v)
}

// CreatePostForm handles GET /posts/create/
func (h *Handler) CreatePostForm(c echo.Context) error {
	return h.renderPostForm(c, nil, newPostForm(h.blog.Now()), nil)
}

// CreatePost handles POST /posts/create/
func (h *Handler) CreatePost(c echo.Context) error {
	actor := actorFrom(c)

	form, in, errs, err := h.bindPostForm(c)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.renderPostForm(c, nil, form, errs)
	}
	if in.Image != nil {
		defer closeUpload(in.Image)
	}

	post, err := h.blog.CreatePost(c.Request().Context(), actor, in)
	if errs := postErrors(err); errs != nil {
		return h.renderPostForm(c, nil, form, errs)
	} else if err != nil {
		return err
	}

	postsCreated.Inc()
	h.log.InfoContext(c.Request().Context(), "post created", "post_id", post.ID, "author_id", actor.ID)

	return redirect(c, redirectTarget(opPostCreated, actor, post.ID))
}

// EditPostForm handles GET /posts/:id/edit/
func (h *Handler) EditPostForm(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.blog.PostForEdit(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return h.denied(c, err, id)
	}

	return h.renderPostForm(c, post, postFormFrom(post), nil)
}

// EditPost handles POST /posts/:id/edit/
func (h *Handler) EditPost(c echo.Context) error {
	actor := actorFrom(c)
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	// authorship comes first so a non-author never sees validation errors
	post, err := h.blog.PostForEdit(c.Request().Context(), actor, id)
	if err != nil {
		return h.denied(c, err, id)
	}

	form, in, errs, err := h.bindPostForm(c)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.renderPostForm(c, post, form, errs)
	}
	if in.Image != nil {
		defer closeUpload(in.Image)
	}

	_, err = h.blog.EditPost(c.Request().Context(), actor, id, in)
	if errs := postErrors(err); errs != nil {
		return h.renderPostForm(c, post, form, errs)
	} else if err != nil {
		return h.denied(c, err, id)
	}

	return redirect(c, redirectTarget(opPostEdited, actor, id))
}

// DeletePostForm handles GET /posts/:id/delete/
func (h *Handler) DeletePostForm(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.blog.PostForEdit(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return h.denied(c, err, id)
	}

	v := h.view(c)
	v.Post = post
	v.Form = postFormFrom(post)
	v.Deleting = true
	return c.Render(http.StatusOK, "create.html", v)
}

// DeletePost handles POST /posts/:id/delete/
func (h *Handler) DeletePost(c echo.Context) error {
	actor := actorFrom(c)
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.blog.DeletePost(c.Request().Context(), actor, id); err != nil {
		return h.denied(c, err, id)
	}

	h.log.InfoContext(c.Request().Context(), "post deleted", "post_id", id, "author_id", actor.ID)
	return redirect(c, redirectTarget(opPostDeleted, actor, id))
}

const (
	imageError  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	choiceError = "Select a valid choice. That choice is not one of the available choices."
)

// postErrors maps manager errors caused by the submitted form to field errors.
func postErrors(err error) map[string]string {
	switch {
	case errors.Is(err, media.ErrUnsupportedImage):
		return map[string]string{"image": imageError}
	case errors.Is(err, blog.ErrInvalidCategory):
		return map[string]string{"category": choiceError}
	case errors.Is(err, blog.ErrInvalidLocation):
		return map[string]string{"location": choiceError}
	}
	return nil
}

// denied turns blog.ErrNotAuthor into the redirect to the post detail; other errors pass through.
func (h *Handler) denied(c echo.Context, err error, postID int) error {
	if errors.Is(err, blog.ErrNotAuthor) {
		return redirect(c, redirectTarget(opNotAuthor, actorFrom(c), postID))
	}
	return err
}

// bindPostForm binds and validates the post form. Field errors come back in errs;
// err is reserved for failures that are not the user's fault.
func (h *Handler) bindPostForm(c echo.Context) (*postForm, blog.PostInput, map[string]string, error) {
	form := &postForm{}
	if err := c.Bind(form); err != nil {
		return form, blog.PostInput{}, map[string]string{nonFieldErrors: "Invalid form data."}, nil
	}

	if err := c.Validate(form); err != nil {
		return form, blog.PostInput{}, fieldErrors(err), nil
	}

	in, errs := form.input()
	if errs != nil {
		return form, in, errs, nil
	}

	upload, err := formUpload(c, "image")
	if err != nil {
		return form, in, nil, err
	}
	in.Image = upload

	return form, in, nil, nil
}

// formUpload opens the uploaded file of field, or returns nil when none was sent.
func formUpload(c echo.Context, field string) (*blog.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	return &blog.Upload{Filename: fh.Filename, Body: f}, nil
}

func closeUpload(u *blog.Upload) {
	if f, ok := u.Body.(multipart.File); ok {
		_ = f.Close()
	}
}

func (h *Handler) renderPostForm(c echo.Context, post *blog.Post, form *postForm, errs map[string]string) error {
	ctx := c.Request().Context()

	categories, err := h.blog.Categories(ctx)
	if err != nil {
		return err
	}

	locations, err := h.blog.Locations(ctx)
	if err != nil {
		return err
	}

	v := h.view(c)
	v.Post = post
	v.Form = form
	v.Errors = errs
	v.Categories = categories
	v.Locations = locations
	return c.Render(http.StatusOK, "create.html", v)
}
