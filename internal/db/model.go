// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	User struct {
		ID, Username, FirstName, LastName, Email, PasswordHash, CreatedAt string
	}
	Category struct {
		ID, Title, Description, Slug, IsPublished, CreatedAt string
	}
	Location struct {
		ID, Name, IsPublished, CreatedAt string
	}
	Post struct {
		ID, Title, Text, PubDate, Image, IsPublished, CreatedAt, AuthorID, CategoryID, LocationID string

		Author, Category, Location string
	}
	Comment struct {
		ID, Text, CreatedAt, AuthorID, PostID string

		Author string
	}
}{
	User: struct {
		ID, Username, FirstName, LastName, Email, PasswordHash, CreatedAt string
	}{
		ID:           "id",
		Username:     "username",
		FirstName:    "first_name",
		LastName:     "last_name",
		Email:        "email",
		PasswordHash: "password_hash",
		CreatedAt:    "created_at",
	},
	Category: struct {
		ID, Title, Description, Slug, IsPublished, CreatedAt string
	}{
		ID:          "id",
		Title:       "title",
		Description: "description",
		Slug:        "slug",
		IsPublished: "is_published",
		CreatedAt:   "created_at",
	},
	Location: struct {
		ID, Name, IsPublished, CreatedAt string
	}{
		ID:          "id",
		Name:        "name",
		IsPublished: "is_published",
		CreatedAt:   "created_at",
	},
	Post: struct {
		ID, Title, Text, PubDate, Image, IsPublished, CreatedAt, AuthorID, CategoryID, LocationID string

		Author, Category, Location string
	}{
		ID:          "id",
		Title:       "title",
		Text:        "text",
		PubDate:     "pub_date",
		Image:       "image",
		IsPublished: "is_published",
		CreatedAt:   "created_at",
		AuthorID:    "author_id",
		CategoryID:  "category_id",
		LocationID:  "location_id",

		Author:   "Author",
		Category: "Category",
		Location: "Location",
	},
	Comment: struct {
		ID, Text, CreatedAt, AuthorID, PostID string

		Author string
	}{
		ID:        "id",
		Text:      "text",
		CreatedAt: "created_at",
		AuthorID:  "author_id",
		PostID:    "post_id",

		Author: "Author",
	},
}

var Tables = struct {
	User struct {
		Name, Alias string
	}
	Category struct {
		Name, Alias string
	}
	Location struct {
		Name, Alias string
	}
	Post struct {
		Name, Alias string
	}
	Comment struct {
		Name, Alias string
	}
}{
	User: struct {
		Name, Alias string
	}{
		Name:  "users",
		Alias: "t",
	},
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	Location: struct {
		Name, Alias string
	}{
		Name:  "locations",
		Alias: "t",
	},
	Post: struct {
		Name, Alias string
	}{
		Name:  "posts",
		Alias: "t",
	},
	Comment: struct {
		Name, Alias string
	}{
		Name:  "comments",
		Alias: "t",
	},
}

type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID           int       `pg:"id,pk"`
	Username     string    `pg:"username,use_zero"`
	FirstName    string    `pg:"first_name,use_zero"`
	LastName     string    `pg:"last_name,use_zero"`
	Email        string    `pg:"email,use_zero"`
	PasswordHash string    `pg:"password_hash,use_zero"`
	CreatedAt    time.Time `pg:"created_at"`
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID          int       `pg:"id,pk"`
	Title       string    `pg:"title,use_zero"`
	Description string    `pg:"description,use_zero"`
	Slug        string    `pg:"slug,use_zero"`
	IsPublished bool      `pg:"is_published,use_zero"`
	CreatedAt   time.Time `pg:"created_at"`
}

type Location struct {
	tableName struct{} `pg:"locations,alias:t,discard_unknown_columns"`

	ID          int       `pg:"id,pk"`
	Name        string    `pg:"name,use_zero"`
	IsPublished bool      `pg:"is_published,use_zero"`
	CreatedAt   time.Time `pg:"created_at"`
}

type Post struct {
	tableName struct{} `pg:"posts,alias:t,discard_unknown_columns"`

	ID          int       `pg:"id,pk"`
	Title       string    `pg:"title,use_zero"`
	Text        string    `pg:"text,use_zero"`
	PubDate     time.Time `pg:"pub_date,use_zero"`
	Image       *string   `pg:"image"`
	IsPublished bool      `pg:"is_published,use_zero"`
	CreatedAt   time.Time `pg:"created_at"`
	AuthorID    int       `pg:"author_id,use_zero"`
	CategoryID  *int      `pg:"category_id"`
	LocationID  *int      `pg:"location_id"`

	Author   *User     `pg:"fk:author_id,rel:has-one"`
	Category *Category `pg:"fk:category_id,rel:has-one"`
	Location *Location `pg:"fk:location_id,rel:has-one"`

	CommentCount int `pg:"-"`
}

type Comment struct {
	tableName struct{} `pg:"comments,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	Text      string    `pg:"text,use_zero"`
	CreatedAt time.Time `pg:"created_at"`
	AuthorID  int       `pg:"author_id,use_zero"`
	PostID    int       `pg:"post_id,use_zero"`

	Author *User `pg:"fk:author_id,rel:has-one"`
}
