package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"blogd/internal/models"
)

// PostUpdate carries the mutable post fields; nil pointers are left
// unchanged.
type PostUpdate struct {
	Title    *string
	Content  *string
	Author   *string
	ImageKey *string
}

// PostExists checks whether a post exists by id.
func (s *Store) PostExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM posts WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CommentExists checks whether a comment exists by id.
func (s *Store) CommentExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM comments WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreatePost inserts a post record.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (
			id, author_user_id, author_user_name, author_profile_pic_key,
			title, content, author, image_key, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		post.ID,
		post.User.UserID,
		post.User.UserName,
		post.User.ProfilePicKey,
		post.Title,
		post.Content,
		post.Author,
		post.ImageKey,
		formatTime(post.CreatedAt),
	)
	return err
}

// GetPost returns a post with its comments, or nil when absent.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, author_user_id, author_user_name, author_profile_pic_key,
			title, content, author, image_key, created_at
		FROM posts WHERE id = ?
	`, id)

	post, err := scanPost(row)
	if err != nil || post == nil {
		return nil, err
	}

	comments, err := s.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// ListPosts returns all posts in insertion order, comments included.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, author_user_id, author_user_name, author_profile_pic_key,
			title, content, author, image_key, created_at
		FROM posts ORDER BY created_at, id
	`)
}

// ListPostsByAuthor returns the posts whose recorded author snapshot
// matches the given user id.
func (s *Store) ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, author_user_id, author_user_name, author_profile_pic_key,
			title, content, author, image_key, created_at
		FROM posts WHERE author_user_id = ? ORDER BY created_at, id
	`, userID)
}

// UpdatePost applies the provided fields and returns the updated post, or
// nil when no post has that id.
func (s *Store) UpdatePost(ctx context.Context, id string, update PostUpdate) (*models.Post, error) {
	set := []string{}
	args := []any{}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Author != nil {
		set = append(set, "author = ?")
		args = append(args, *update.Author)
	}
	if update.ImageKey != nil {
		set = append(set, "image_key = ?")
		args = append(args, *update.ImageKey)
	}

	if len(set) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE posts SET %s WHERE id = ?", strings.Join(set, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	return s.GetPost(ctx, id)
}

// DeletePost removes a post and, via cascade, its comments. It reports
// whether a row was deleted.
func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AddComment appends a comment to a post.
func (s *Store) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("comment is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (
			id, post_id, commenter_user_id, commenter_user_name,
			commenter_profile_pic_key, text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		comment.ID,
		postID,
		comment.User.UserID,
		comment.User.UserName,
		comment.User.ProfilePicKey,
		comment.Text,
		formatTime(comment.CreatedAt),
	)
	return err
}

// ListComments returns a post's comments in insertion order. The result is
// never nil so an empty list serializes as [].
func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, commenter_user_id, commenter_user_name, commenter_profile_pic_key, text, created_at
		FROM comments WHERE post_id = ? ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.User.UserID, &c.User.UserName, &c.User.ProfilePicKey, &c.Text, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes one comment from a post. It reports whether a
// matching comment existed.
func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM comments WHERE id = ? AND post_id = ?", commentID, postID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) listPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachComments loads comments for a batch of posts in one query.
func (s *Store) attachComments(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]any, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	query := fmt.Sprintf(`
		SELECT post_id, id, commenter_user_id, commenter_user_name, commenter_profile_pic_key, text, created_at
		FROM comments WHERE post_id IN (%s) ORDER BY created_at, id
	`, placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byPost := make(map[string][]models.Comment, len(posts))
	for rows.Next() {
		var postID, createdAt string
		var c models.Comment
		if err := rows.Scan(&postID, &c.ID, &c.User.UserID, &c.User.UserName, &c.User.ProfilePicKey, &c.Text, &createdAt); err != nil {
			return err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return err
		}
		byPost[postID] = append(byPost[postID], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range posts {
		comments := byPost[posts[i].ID]
		if comments == nil {
			comments = []models.Comment{}
		}
		posts[i].Comments = comments
	}
	return nil
}

func scanPost(scanner interface {
	Scan(dest ...any) error
}) (*models.Post, error) {
	var post models.Post
	var createdAt string
	err := scanner.Scan(
		&post.ID,
		&post.User.UserID,
		&post.User.UserName,
		&post.User.ProfilePicKey,
		&post.Title,
		&post.Content,
		&post.Author,
		&post.ImageKey,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	post.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	post.Comments = []models.Comment{}
	return &post, nil
}

func placeholders(count int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
