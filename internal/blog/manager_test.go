package blog_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/daniilsolovey/blogicum/internal/blog/blogtest"
	"github.com/daniilsolovey/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// noOpLogger creates a logger that discards all output for tests
func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}

type fixture struct {
	store  *blogtest.Store
	images *blogtest.Images
	m      *blog.Manager

	alice, bob       *blog.User
	travel, drafts   db.Category
	public, draft    db.Post
	future, shadowed db.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  blogtest.NewStore(),
		images: blogtest.NewImages(),
	}
	f.m = blog.NewManager(f.store, f.images, noOpLogger(),
		blog.WithClock(func() time.Time { return now }),
		blog.WithHashCost(bcrypt.MinCost),
	)

	alice := blog.NewUser(ptr(f.store.AddUser("alice")))
	bob := blog.NewUser(ptr(f.store.AddUser("bob")))
	f.alice, f.bob = &alice, &bob

	f.travel = f.store.AddCategory(db.Category{Title: "Travel", Slug: "travel", IsPublished: true})
	f.drafts = f.store.AddCategory(db.Category{Title: "Drafts", Slug: "drafts", IsPublished: false})

	f.public = f.store.AddPost(db.Post{Title: "Public", PubDate: now.Add(-time.Hour), IsPublished: true,
		AuthorID: alice.ID, CategoryID: &f.travel.ID})
	f.draft = f.store.AddPost(db.Post{Title: "Draft", PubDate: now.Add(-2 * time.Hour), IsPublished: false,
		AuthorID: alice.ID})
	f.future = f.store.AddPost(db.Post{Title: "Future", PubDate: now.Add(time.Hour), IsPublished: true,
		AuthorID: alice.ID})
	f.shadowed = f.store.AddPost(db.Post{Title: "Shadowed", PubDate: now.Add(-3 * time.Hour), IsPublished: true,
		AuthorID: alice.ID, CategoryID: &f.drafts.ID})

	return f
}

func ptr[T any](v T) *T {
	return &v
}

func titles(posts []blog.Post) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].Title
	}
	return out
}

func TestManager_Feed(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlyPublicPosts", func(t *testing.T) {
		f := newFixture(t)

		page, err := f.m.Feed(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Public"}, titles(page.Posts))
		assert.Equal(t, 1, page.Total)
	})

	t.Run("CommentCountIsAttached", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddComment(db.Comment{Text: "one", PostID: f.public.ID, AuthorID: f.bob.ID, CreatedAt: now})
		f.store.AddComment(db.Comment{Text: "two", PostID: f.public.ID, AuthorID: f.bob.ID, CreatedAt: now})

		page, err := f.m.Feed(ctx, 1)
		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, 2, page.Posts[0].CommentCount)
		assert.Equal(t, "alice", page.Posts[0].Author.Username)
		require.NotNil(t, page.Posts[0].Category)
		assert.Equal(t, "travel", page.Posts[0].Category.Slug)
	})

	t.Run("PaginatesTwentyFivePosts", func(t *testing.T) {
		store := blogtest.NewStore()
		author := store.AddUser("writer")
		for i := 0; i < 25; i++ {
			store.AddPost(db.Post{
				Title:       fmt.Sprintf("Post %02d", i),
				PubDate:     now.Add(-time.Duration(i+1) * time.Minute),
				IsPublished: true,
				AuthorID:    author.ID,
			})
		}
		m := blog.NewManager(store, blogtest.NewImages(), noOpLogger(),
			blog.WithClock(func() time.Time { return now }))

		first, err := m.Feed(ctx, 1)
		require.NoError(t, err)
		require.Len(t, first.Posts, 10)
		assert.Equal(t, "Post 00", first.Posts[0].Title)
		assert.Equal(t, "Post 09", first.Posts[9].Title)
		assert.Equal(t, 3, first.NumPages())

		last, err := m.Feed(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, last.Posts, 5)
		assert.Equal(t, "Post 24", last.Posts[4].Title)

		byName, err := m.Feed(ctx, blog.LastPage)
		require.NoError(t, err)
		assert.Equal(t, 3, byName.Number)
		assert.Equal(t, titles(last.Posts), titles(byName.Posts))

		_, err = m.Feed(ctx, 4)
		assert.ErrorIs(t, err, blog.ErrNotFound)

		_, err = m.Feed(ctx, 0)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})

	t.Run("EmptyFeedFirstPage", func(t *testing.T) {
		m := blog.NewManager(blogtest.NewStore(), blogtest.NewImages(), noOpLogger())

		page, err := m.Feed(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)

		page, err = m.Feed(ctx, blog.LastPage)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Number)
	})
}

func TestManager_CategoryFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("PublishedCategory", func(t *testing.T) {
		category, page, err := f.m.CategoryFeed(ctx, "travel", 1)
		require.NoError(t, err)
		assert.Equal(t, "Travel", category.Title)
		assert.Equal(t, []string{"Public"}, titles(page.Posts))
	})

	t.Run("UnpublishedCategoryIsNotFound", func(t *testing.T) {
		_, _, err := f.m.CategoryFeed(ctx, "drafts", 1)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})

	t.Run("UnknownSlug", func(t *testing.T) {
		_, _, err := f.m.CategoryFeed(ctx, "missing", 1)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestManager_ProfileFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("OwnerSeesEverything", func(t *testing.T) {
		profile, page, err := f.m.ProfileFeed(ctx, f.alice, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", profile.Username)
		assert.Equal(t, []string{"Future", "Public", "Draft", "Shadowed"}, titles(page.Posts))
	})

	t.Run("OthersSeePublicOnly", func(t *testing.T) {
		_, page, err := f.m.ProfileFeed(ctx, f.bob, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Public"}, titles(page.Posts))
	})

	t.Run("AnonymousSeesPublicOnly", func(t *testing.T) {
		_, page, err := f.m.ProfileFeed(ctx, nil, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Public"}, titles(page.Posts))
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, _, err := f.m.ProfileFeed(ctx, nil, "carol", 1)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestManager_PostDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.AddComment(db.Comment{Text: "later", PostID: f.public.ID, AuthorID: f.alice.ID, CreatedAt: now.Add(-time.Minute)})
	f.store.AddComment(db.Comment{Text: "earlier", PostID: f.public.ID, AuthorID: f.bob.ID, CreatedAt: now.Add(-time.Hour)})

	t.Run("PublicPostWithCommentsOldestFirst", func(t *testing.T) {
		post, comments, err := f.m.PostDetail(ctx, nil, f.public.ID)
		require.NoError(t, err)
		assert.Equal(t, "Public", post.Title)
		require.Len(t, comments, 2)
		assert.Equal(t, "earlier", comments[0].Text)
		assert.Equal(t, "bob", comments[0].Author.Username)
		assert.Equal(t, "later", comments[1].Text)
	})

	for _, hidden := range []db.Post{f.draft, f.future, f.shadowed} {
		t.Run("HiddenFromOthers/"+hidden.Title, func(t *testing.T) {
			_, _, err := f.m.PostDetail(ctx, nil, hidden.ID)
			assert.ErrorIs(t, err, blog.ErrNotFound)

			_, _, err = f.m.PostDetail(ctx, f.bob, hidden.ID)
			assert.ErrorIs(t, err, blog.ErrNotFound)
		})

		t.Run("VisibleToAuthor/"+hidden.Title, func(t *testing.T) {
			post, _, err := f.m.PostDetail(ctx, f.alice, hidden.ID)
			require.NoError(t, err)
			assert.Equal(t, hidden.Title, post.Title)
		})
	}

	t.Run("Missing", func(t *testing.T) {
		_, _, err := f.m.PostDetail(ctx, f.alice, 9999)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestManager_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthorIsActor", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.CreatePost(ctx, f.bob, blog.PostInput{
			Title:       "Mine",
			Text:        "body",
			PubDate:     now,
			IsPublished: true,
			CategoryID:  f.travel.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.bob.ID, post.Author.ID)

		stored, ok := f.store.Post(post.ID)
		require.True(t, ok)
		assert.Equal(t, f.bob.ID, stored.AuthorID)
		require.NotNil(t, stored.CategoryID)
		assert.Equal(t, f.travel.ID, *stored.CategoryID)
		assert.Nil(t, stored.LocationID)
		assert.Equal(t, now, stored.CreatedAt)
	})

	t.Run("StoresImage", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.CreatePost(ctx, f.bob, blog.PostInput{
			Title:   "Pic",
			Text:    "body",
			PubDate: now,
			Image:   &blog.Upload{Filename: "cat.png", Body: strings.NewReader("png")},
		})
		require.NoError(t, err)
		require.NotEmpty(t, post.Image)
		assert.Equal(t, []byte("png"), f.images.Objects[post.Image])
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.CreatePost(ctx, nil, blog.PostInput{Title: "x"})
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})

	t.Run("RejectsUnpublishedOrUnknownChoices", func(t *testing.T) {
		f := newFixture(t)
		hidden := f.store.AddLocation(db.Location{Name: "Bunker", IsPublished: false})

		tests := []struct {
			name string
			in   blog.PostInput
			want error
		}{
			{"UnknownCategory", blog.PostInput{Title: "x", PubDate: now, CategoryID: 9999}, blog.ErrInvalidCategory},
			{"UnpublishedCategory", blog.PostInput{Title: "x", PubDate: now, CategoryID: f.drafts.ID}, blog.ErrInvalidCategory},
			{"UnknownLocation", blog.PostInput{Title: "x", PubDate: now, LocationID: 9999}, blog.ErrInvalidLocation},
			{"UnpublishedLocation", blog.PostInput{Title: "x", PubDate: now, LocationID: hidden.ID}, blog.ErrInvalidLocation},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.m.CreatePost(ctx, f.bob, tt.in)
				assert.ErrorIs(t, err, tt.want)
				assert.ErrorIs(t, err, blog.ErrInvalidChoice)
			})
		}

		_, page, err := f.m.ProfileFeed(ctx, f.bob, "bob", 1)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
	})
}

func TestManager_EditPost(t *testing.T) {
	ctx := context.Background()

	t.Run("NonAuthorIsRejectedWithoutMutation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.EditPost(ctx, f.bob, f.public.ID, blog.PostInput{Title: "Hijacked", PubDate: now})
		assert.ErrorIs(t, err, blog.ErrNotAuthor)

		stored, _ := f.store.Post(f.public.ID)
		assert.Equal(t, "Public", stored.Title)
	})

	t.Run("MissingPost", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.EditPost(ctx, f.alice, 9999, blog.PostInput{})
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})

	t.Run("AuthorUpdates", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.EditPost(ctx, f.alice, f.draft.ID, blog.PostInput{
			Title:       "Ready",
			Text:        "final",
			PubDate:     now.Add(-time.Minute),
			IsPublished: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Ready", post.Title)

		page, err := f.m.Feed(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ready", "Public"}, titles(page.Posts))
	})

	t.Run("ReplacingImageDeletesOldOne", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.CreatePost(ctx, f.alice, blog.PostInput{
			Title: "Pic", PubDate: now,
			Image: &blog.Upload{Filename: "a.png", Body: strings.NewReader("a")},
		})
		require.NoError(t, err)
		oldKey := post.Image

		post, err = f.m.EditPost(ctx, f.alice, post.ID, blog.PostInput{
			Title: "Pic", PubDate: now,
			Image: &blog.Upload{Filename: "b.png", Body: strings.NewReader("b")},
		})
		require.NoError(t, err)
		assert.NotEqual(t, oldKey, post.Image)
		assert.Equal(t, []string{oldKey}, f.images.Deleted)
	})

	t.Run("KeepsImageWhenNoneSubmitted", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.CreatePost(ctx, f.alice, blog.PostInput{
			Title: "Pic", PubDate: now,
			Image: &blog.Upload{Filename: "a.png", Body: strings.NewReader("a")},
		})
		require.NoError(t, err)

		edited, err := f.m.EditPost(ctx, f.alice, post.ID, blog.PostInput{Title: "Renamed", PubDate: now})
		require.NoError(t, err)
		assert.Equal(t, post.Image, edited.Image)
		assert.Empty(t, f.images.Deleted)
	})

	t.Run("RejectsUnpublishedCategory", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.EditPost(ctx, f.alice, f.public.ID, blog.PostInput{Title: "Moved", PubDate: now, CategoryID: f.drafts.ID})
		assert.ErrorIs(t, err, blog.ErrInvalidCategory)

		stored, _ := f.store.Post(f.public.ID)
		assert.Equal(t, "Public", stored.Title)
	})

	t.Run("FailedUpdateDeletesNewImage", func(t *testing.T) {
		f := newFixture(t)
		f.store.UpdatePostErr = errors.New("connection reset")

		_, err := f.m.EditPost(ctx, f.alice, f.public.ID, blog.PostInput{
			Title: "Pic", PubDate: now,
			Image: &blog.Upload{Filename: "b.png", Body: strings.NewReader("b")},
		})
		require.Error(t, err)
		assert.Empty(t, f.images.Objects)
		assert.Len(t, f.images.Deleted, 1)
	})

	t.Run("ClearImage", func(t *testing.T) {
		f := newFixture(t)

		post, err := f.m.CreatePost(ctx, f.alice, blog.PostInput{
			Title: "Pic", PubDate: now,
			Image: &blog.Upload{Filename: "a.png", Body: strings.NewReader("a")},
		})
		require.NoError(t, err)

		edited, err := f.m.EditPost(ctx, f.alice, post.ID, blog.PostInput{Title: "Pic", PubDate: now, ClearImage: true})
		require.NoError(t, err)
		assert.Empty(t, edited.Image)
		assert.Equal(t, []string{post.Image}, f.images.Deleted)
	})
}

func TestManager_DeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("NonAuthor", func(t *testing.T) {
		f := newFixture(t)

		err := f.m.DeletePost(ctx, f.bob, f.public.ID)
		assert.ErrorIs(t, err, blog.ErrNotAuthor)

		_, ok := f.store.Post(f.public.ID)
		assert.True(t, ok)
	})

	t.Run("CascadesComments", func(t *testing.T) {
		f := newFixture(t)
		c := f.store.AddComment(db.Comment{Text: "bye", PostID: f.public.ID, AuthorID: f.bob.ID, CreatedAt: now})

		require.NoError(t, f.m.DeletePost(ctx, f.alice, f.public.ID))

		_, ok := f.store.Post(f.public.ID)
		assert.False(t, ok)
		_, ok = f.store.Comment(c.ID)
		assert.False(t, ok)
	})
}

func TestManager_Comments(t *testing.T) {
	ctx := context.Background()

	t.Run("AddToPublicPost", func(t *testing.T) {
		f := newFixture(t)

		comment, err := f.m.AddComment(ctx, f.bob, f.public.ID, "nice")
		require.NoError(t, err)
		assert.Equal(t, "bob", comment.Author.Username)
		assert.Equal(t, f.public.ID, comment.PostID)

		post, _, err := f.m.PostDetail(ctx, nil, f.public.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, post.CommentCount)
	})

	t.Run("AddToHiddenPostByNonAuthor", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.AddComment(ctx, f.bob, f.draft.ID, "peek")
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})

	t.Run("AuthorCommentsOwnHiddenPost", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.AddComment(ctx, f.alice, f.draft.ID, "note to self")
		assert.NoError(t, err)
	})

	t.Run("EditAndDeleteRequireAuthorship", func(t *testing.T) {
		f := newFixture(t)
		comment, err := f.m.AddComment(ctx, f.bob, f.public.ID, "original")
		require.NoError(t, err)

		_, err = f.m.EditComment(ctx, f.alice, f.public.ID, comment.ID, "changed")
		assert.ErrorIs(t, err, blog.ErrNotAuthor)

		err = f.m.DeleteComment(ctx, f.alice, f.public.ID, comment.ID)
		assert.ErrorIs(t, err, blog.ErrNotAuthor)

		_, err = f.m.CommentForEdit(ctx, f.alice, f.public.ID, comment.ID)
		assert.ErrorIs(t, err, blog.ErrNotAuthor)

		stored, ok := f.store.Comment(comment.ID)
		require.True(t, ok)
		assert.Equal(t, "original", stored.Text)
	})

	t.Run("EditAndDeleteByAuthor", func(t *testing.T) {
		f := newFixture(t)
		comment, err := f.m.AddComment(ctx, f.bob, f.public.ID, "original")
		require.NoError(t, err)

		edited, err := f.m.EditComment(ctx, f.bob, f.public.ID, comment.ID, "changed")
		require.NoError(t, err)
		assert.Equal(t, "changed", edited.Text)

		require.NoError(t, f.m.DeleteComment(ctx, f.bob, f.public.ID, comment.ID))
		_, ok := f.store.Comment(comment.ID)
		assert.False(t, ok)
	})

	t.Run("CommentUnderWrongPost", func(t *testing.T) {
		f := newFixture(t)
		comment, err := f.m.AddComment(ctx, f.bob, f.public.ID, "original")
		require.NoError(t, err)

		_, err = f.m.EditComment(ctx, f.bob, f.draft.ID, comment.ID, "moved")
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestManager_Users(t *testing.T) {
	ctx := context.Background()

	t.Run("RegisterAndAuthenticate", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.m.Register(ctx, blog.RegistrationInput{Username: "carol", Email: "c@example.com", Password: "s3cret!"})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)

		got, err := f.m.Authenticate(ctx, "carol", "s3cret!")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = f.m.Authenticate(ctx, "carol", "wrong")
		assert.ErrorIs(t, err, blog.ErrInvalidCredentials)

		_, err = f.m.Authenticate(ctx, "nobody", "s3cret!")
		assert.ErrorIs(t, err, blog.ErrInvalidCredentials)
	})

	t.Run("RegisterTakenUsername", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.m.Register(ctx, blog.RegistrationInput{Username: "alice", Password: "x"})
		assert.ErrorIs(t, err, blog.ErrUsernameTaken)
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.m.UpdateProfile(ctx, f.bob, blog.ProfileInput{
			Username: "robert", FirstName: "Robert", LastName: "Smith", Email: "r@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "robert", user.Username)
		assert.Equal(t, "Robert Smith", user.FullName())

		_, err = f.m.UpdateProfile(ctx, f.bob, blog.ProfileInput{Username: "alice"})
		assert.ErrorIs(t, err, blog.ErrUsernameTaken)
	})

	t.Run("UserByID", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.m.UserByID(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		_, err = f.m.UserByID(ctx, 9999)
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})
}
