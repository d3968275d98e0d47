package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"blogd/internal/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "BLOGD_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the blogd API.
type Client struct {
	baseURL string
	http    *http.Client
	access  string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// SetAccessToken sets the bearer token used on subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.access = strings.TrimSpace(token)
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Register creates an account. The profile picture is uploaded as a
// multipart file part named profile_pic.
func (c *Client) Register(ctx context.Context, userName, email, password, picName string, pic io.Reader) (RegisterResponse, error) {
	var resp RegisterResponse
	fields := map[string]string{
		"user_name": userName,
		"email":     email,
		"password":  password,
	}
	err := c.doMultipart(ctx, http.MethodPost, "/v1/users/register", fields, "profile_pic", picName, pic, &resp)
	return resp, err
}

// Login exchanges credentials for an access token and stores it on the
// client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/login", LoginRequest{Email: email, Password: password}, &resp)
	if err == nil {
		c.SetAccessToken(resp.Access)
	}
	return resp, err
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (UserResponse, error) {
	var resp UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, &resp)
	return resp, err
}

// CreatePost creates a post with an image upload.
func (c *Client) CreatePost(ctx context.Context, title, content, author, imageName string, image io.Reader) (PostResponse, error) {
	var resp PostResponse
	fields := map[string]string{
		"title":   title,
		"content": content,
		"author":  author,
	}
	err := c.doMultipart(ctx, http.MethodPost, "/v1/posts", fields, "image", imageName, image, &resp)
	return resp, err
}

// ListPosts returns every post.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var resp []models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts", nil, &resp)
	return resp, err
}

// MyPosts returns the authenticated user's posts.
func (c *Client) MyPosts(ctx context.Context) ([]models.Post, error) {
	var resp []models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts/mine", nil, &resp)
	return resp, err
}

// GetPost returns one post by id.
func (c *Client) GetPost(ctx context.Context, id string) (models.Post, error) {
	var resp models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// UpdatePost patches the provided fields; empty strings are left out of
// the request entirely. A nil image leaves the stored image unchanged.
func (c *Client) UpdatePost(ctx context.Context, id, title, content, author, imageName string, image io.Reader) (PostResponse, error) {
	var resp PostResponse
	fields := map[string]string{}
	if title != "" {
		fields["title"] = title
	}
	if content != "" {
		fields["content"] = content
	}
	if author != "" {
		fields["author"] = author
	}
	err := c.doMultipart(ctx, http.MethodPatch, "/v1/posts/"+url.PathEscape(id), fields, "image", imageName, image, &resp)
	return resp, err
}

// DeletePost deletes a post the caller owns (or any post for admins).
func (c *Client) DeletePost(ctx context.Context, id string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodDelete, "/v1/posts/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// AddComment appends a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID, text string) (PostResponse, error) {
	var resp PostResponse
	err := c.do(ctx, http.MethodPost, "/v1/posts/"+url.PathEscape(postID)+"/comments", CommentCreateRequest{Comment: text}, &resp)
	return resp, err
}

// ListComments returns a post's comments.
func (c *Client) ListComments(ctx context.Context, postID string) (CommentsResponse, error) {
	var resp CommentsResponse
	err := c.do(ctx, http.MethodGet, "/v1/posts/"+url.PathEscape(postID)+"/comments", nil, &resp)
	return resp, err
}

// AdminDeletePost deletes any post. Requires an admin token.
func (c *Client) AdminDeletePost(ctx context.Context, postID string) (MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodDelete, "/v1/admin/posts/"+url.PathEscape(postID), nil, &resp)
	return resp, err
}

// AdminDeleteComment deletes one comment from a post. Requires an admin
// token.
func (c *Client) AdminDeleteComment(ctx context.Context, postID, commentID string) (MessageResponse, error) {
	var resp MessageResponse
	path := "/v1/admin/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID)
	err := c.do(ctx, http.MethodDelete, path, nil, &resp)
	return resp, err
}

// GetImage streams the blob stored under key to w.
func (c *Client) GetImage(ctx context.Context, key string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/images/"+key, nil)
	if err != nil {
		return err
	}
	c.setAuthHeader(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		if errResp.Code != "" {
			return fmt.Errorf("%s: %s", errResp.Code, errResp.Error)
		}
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("api error: %s", resp.Status)
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.access == "" || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.access)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
