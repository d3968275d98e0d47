package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogd/internal/auth"
	"blogd/internal/models"
	"blogd/internal/store"
)

// PostService centralizes post and comment validation and persistence.
type PostService struct {
	store *store.Store
}

// NewPostService constructs a PostService.
func NewPostService(st *store.Store) *PostService {
	return &PostService{store: st}
}

// PostCreateInput carries a new post after its image has been stored.
type PostCreateInput struct {
	Title    string
	Content  string
	Author   string
	ImageKey string
}

// Create persists a new post stamped with the requester's identity.
func (s *PostService) Create(ctx context.Context, requester *auth.Claims, input PostCreateInput) (*models.Post, error) {
	identity, err := requesterIdentity(requester)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired)
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, badRequestCode(fmt.Errorf("content is required"), ErrCodeMissingRequired)
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		return nil, badRequestCode(fmt.Errorf("author is required"), ErrCodeMissingRequired)
	}

	id, err := store.GeneratePostID(s.store.PostExists)
	if err != nil {
		return nil, storeFailure(err)
	}

	post := &models.Post{
		ID:        id,
		User:      identity,
		Title:     title,
		Content:   content,
		Author:    author,
		ImageKey:  input.ImageKey,
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, storeFailure(err)
	}
	return post, nil
}

// ListAll returns every post. An empty collection is reported as not found.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	if len(posts) == 0 {
		return nil, notFoundCode(fmt.Errorf("no posts found"), ErrCodeNoPosts)
	}
	return posts, nil
}

// ListByAuthor returns the requester's posts. An empty collection is
// reported as not found, same as ListAll.
func (s *PostService) ListByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.store.ListPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if len(posts) == 0 {
		return nil, notFoundCode(fmt.Errorf("no posts found"), ErrCodeNoPosts)
	}
	return posts, nil
}

// Get loads one post with its comments.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if post == nil {
		return nil, notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}
	return post, nil
}

// Update applies a partial update. Any authenticated caller may update any
// post; ownership is deliberately not checked here.
func (s *PostService) Update(ctx context.Context, requester *auth.Claims, id string, update store.PostUpdate) (*models.Post, error) {
	if err := decide(ActionUpdatePost, requester, ""); err != nil {
		return nil, err
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, badRequestCode(fmt.Errorf("title cannot be empty"), ErrCodeInvalidArgument)
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return nil, badRequestCode(fmt.Errorf("content cannot be empty"), ErrCodeInvalidArgument)
	}

	post, err := s.store.UpdatePost(ctx, id, update)
	if err != nil {
		return nil, storeFailure(err)
	}
	if post == nil {
		return nil, notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}
	return post, nil
}

// Delete removes a post when the requester owns it or is an admin.
// Comments go with it.
func (s *PostService) Delete(ctx context.Context, requester *auth.Claims, id string) error {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if post == nil {
		return notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}
	if err := decide(ActionDeletePost, requester, post.User.UserID); err != nil {
		return err
	}

	deleted, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}
	return nil
}

// AddComment appends a comment to a post. Admin accounts may not comment.
func (s *PostService) AddComment(ctx context.Context, requester *auth.Claims, postID, text string) (*models.Comment, error) {
	if err := decide(ActionComment, requester, ""); err != nil {
		return nil, err
	}
	identity, err := requesterIdentity(requester)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, badRequestCode(fmt.Errorf("comment cannot be empty"), ErrCodeEmptyComment)
	}

	exists, err := s.store.PostExists(postID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if !exists {
		return nil, notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}

	id, err := store.GenerateCommentID(s.store.CommentExists)
	if err != nil {
		return nil, storeFailure(err)
	}

	comment := &models.Comment{
		ID:        id,
		User:      identity,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AddComment(ctx, postID, comment); err != nil {
		return nil, storeFailure(err)
	}
	return comment, nil
}

// ListComments returns a post's comments; the slice may be empty but the
// post itself must exist.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	exists, err := s.store.PostExists(postID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if !exists {
		return nil, notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return comments, nil
}

// AdminDeletePost removes any post regardless of ownership. The admin gate
// sits in the route middleware.
func (s *PostService) AdminDeletePost(ctx context.Context, id string) error {
	deleted, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}
	return nil
}

// AdminDeleteComment removes one comment from a post.
func (s *PostService) AdminDeleteComment(ctx context.Context, postID, commentID string) error {
	exists, err := s.store.PostExists(postID)
	if err != nil {
		return storeFailure(err)
	}
	if !exists {
		return notFoundCode(fmt.Errorf("post not found"), ErrCodePostNotFound)
	}

	deleted, err := s.store.DeleteComment(ctx, postID, commentID)
	if err != nil {
		return storeFailure(err)
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("comment not found"), ErrCodeCommentNotFound)
	}
	return nil
}

// requesterIdentity extracts the snapshot stamped onto posts and comments.
func requesterIdentity(requester *auth.Claims) (models.Identity, error) {
	if requester == nil {
		return models.Identity{}, unauthorized(fmt.Errorf("authentication required"))
	}
	identity := requester.Identity()
	if identity.UserID == "" || identity.UserName == "" || identity.ProfilePicKey == "" {
		return models.Identity{}, badRequestCode(fmt.Errorf("token is missing identity fields"), ErrCodeIncompleteIdentity)
	}
	return identity, nil
}
