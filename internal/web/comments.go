package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func commentParams(c echo.Context) (postID, commentID int, err error) {
	if postID, err = intParam(c, "id"); err != nil {
		return 0, 0, err
	}
	if commentID, err = intParam(c, "comment_id"); err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}

// AddComment handles POST /posts/:id/comment/
// An empty comment is dropped and the actor lands back on the post.
func (h *Handler) AddComment(c echo.Context) error {
	actor := actorFrom(c)
	postID, err := intParam(c, "id")
	if err != nil {
		return err
	}

	form := &commentForm{}
	if err := c.Bind(form); err != nil || c.Validate(form) != nil {
		return redirect(c, redirectTarget(opCommentChanged, actor, postID))
	}

	comment, err := h.blog.AddComment(c.Request().Context(), actor, postID, form.Text)
	if err != nil {
		return err
	}

	commentsCreated.Inc()
	h.log.InfoContext(c.Request().Context(), "comment added", "post_id", postID, "comment_id", comment.ID)

	return redirect(c, redirectTarget(opCommentChanged, actor, postID))
}

// EditCommentForm handles GET /posts/:id/edit_comment/:comment_id/
func (h *Handler) EditCommentForm(c echo.Context) error {
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}

	comment, err := h.blog.CommentForEdit(c.Request().Context(), actorFrom(c), postID, commentID)
	if err != nil {
		return h.denied(c, err, postID)
	}

	v := h.view(c)
	v.Comment = comment
	v.Form = &commentForm{Text: comment.Text}
	return c.Render(http.StatusOK, "comment.html", v)
}

// EditComment handles POST /posts/:id/edit_comment/:comment_id/
func (h *Handler) EditComment(c echo.Context) error {
	actor := actorFrom(c)
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}

	comment, err := h.blog.CommentForEdit(c.Request().Context(), actor, postID, commentID)
	if err != nil {
		return h.denied(c, err, postID)
	}

	form := &commentForm{}
	if err := c.Bind(form); err != nil {
		return err
	}
	if err := c.Validate(form); err != nil {
		v := h.view(c)
		v.Comment = comment
		v.Form = form
		v.Errors = fieldErrors(err)
		return c.Render(http.StatusOK, "comment.html", v)
	}

	if _, err := h.blog.EditComment(c.Request().Context(), actor, postID, commentID, form.Text); err != nil {
		return h.denied(c, err, postID)
	}

	return redirect(c, redirectTarget(opCommentChanged, actor, postID))
}

// DeleteCommentForm handles GET /posts/:id/delete_comment/:comment_id/
func (h *Handler) DeleteCommentForm(c echo.Context) error {
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}

	comment, err := h.blog.CommentForEdit(c.Request().Context(), actorFrom(c), postID, commentID)
	if err != nil {
		return h.denied(c, err, postID)
	}

	v := h.view(c)
	v.Comment = comment
	v.Deleting = true
	return c.Render(http.StatusOK, "comment.html", v)
}

// DeleteComment handles POST /posts/:id/delete_comment/:comment_id/
func (h *Handler) DeleteComment(c echo.Context) error {
	actor := actorFrom(c)
	postID, commentID, err := commentParams(c)
	if err != nil {
		return err
	}

	if err := h.blog.DeleteComment(c.Request().Context(), actor, postID, commentID); err != nil {
		return h.denied(c, err, postID)
	}

	return redirect(c, redirectTarget(opCommentChanged, actor, postID))
}
