// Package client is a small Go client for the StudBuds HTTP API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("studbuds: %d %s", e.StatusCode, e.Message)
}

// Client calls the API on behalf of one user. Login and Register store the token.
type Client struct {
	http *resty.Client
}

// New returns a client for the API mounted at baseURL, e.g. http://localhost:5000/api
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// SetToken authenticates subsequent requests
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&dto.ErrorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
		if e, ok := resp.Error().(*dto.ErrorResponse); ok && e.Message != "" {
			apiErr.Message = e.Message
		}
		return apiErr
	}
	return nil
}

// Health reports whether the API and its database are reachable
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Register creates an account and keeps its token
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users/register", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login authenticates and keeps the token
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Me returns the authenticated user with their classes
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out struct {
		User dto.UserResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateClass adds a class to the catalogue
func (c *Client) CreateClass(ctx context.Context, req dto.CreateClassRequest) (*dto.ClassResponse, error) {
	var out struct {
		Class dto.ClassResponse `json:"class"`
	}
	if err := c.do(ctx, http.MethodPost, "/classes", req, &out); err != nil {
		return nil, err
	}
	return &out.Class, nil
}

// JoinClass enrolls the authenticated user in classID
func (c *Client) JoinClass(ctx context.Context, classID string) (*dto.ClassResponse, error) {
	var out struct {
		Class dto.ClassResponse `json:"class"`
	}
	if err := c.do(ctx, http.MethodPost, "/classes/"+classID+"/join", nil, &out); err != nil {
		return nil, err
	}
	return &out.Class, nil
}

// CreatePost writes to a class feed
func (c *Client) CreatePost(ctx context.Context, classID, content string, postType models.PostType) (*dto.PostResponse, error) {
	var out struct {
		Post dto.PostResponse `json:"post"`
	}
	req := dto.CreatePostRequest{Content: content, Type: postType}
	if err := c.do(ctx, http.MethodPost, "/classes/"+classID+"/posts", req, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// ListPosts returns the class feed oldest first. A zero limit uses the server default.
func (c *Client) ListPosts(ctx context.Context, classID string, limit int) ([]dto.PostResponse, error) {
	var out struct {
		Posts []dto.PostResponse `json:"posts"`
	}
	path := "/classes/" + classID + "/posts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// SendMessage sends a direct message
func (c *Client) SendMessage(ctx context.Context, receiverID, content string) (*dto.DirectMessageResponse, error) {
	var out struct {
		DirectMessage dto.DirectMessageResponse `json:"directMessage"`
	}
	req := dto.SendMessageRequest{ReceiverID: receiverID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/messages", req, &out); err != nil {
		return nil, err
	}
	return &out.DirectMessage, nil
}

// Conversations lists the authenticated user's threads, most recent first
func (c *Client) Conversations(ctx context.Context) ([]dto.ConversationResponse, error) {
	var out struct {
		Conversations []dto.ConversationResponse `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// UnreadCount returns the number of unread direct messages
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out dto.UnreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/messages/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
