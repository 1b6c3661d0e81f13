package domain

import "time"

type Post struct {
	ID        int64     `db:"id"`
	AuthorID  int64     `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	// AuthorUsername is populated on reads via a join with the user table.
	AuthorUsername string `db:"author_username"`
}

func NewPost(authorID int64, title, content string) *Post {
	return &Post{
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
