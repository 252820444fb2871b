package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/client/models"
	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/netx"
)

// Client is the API surface used by the CLI.
type Client interface {
	Register(ctx context.Context, email, name string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.AuthData, error)
	Posts(ctx context.Context, page int) (*models.PostsPage, error)
	Post(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	UploadImage(ctx context.Context, fileName string, content io.Reader) (string, error)
	SetToken(token string)
	Token() string
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) authorize(req *http.Request) {
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+t)
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Status int           `json:"status"`
		Data   []errorDetail `json:"data"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// query runs one GraphQL operation and decodes its data into out.
func (c *HTTPClient) query(ctx context.Context, q string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: q, Variables: vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Message: strings.TrimSpace(string(b)), Status: resp.StatusCode}
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		e := gr.Errors[0]
		status := e.Extensions.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		return &APIError{Message: e.Message, Status: status, Details: details(e.Extensions.Data)}
	}
	return json.Unmarshal(gr.Data, out)
}

const postFields = `_id title content imageUrl createdAt updatedAt creator { _id name }`

func (c *HTTPClient) Register(ctx context.Context, email, name string, password []byte) (*models.User, error) {
	var out struct {
		CreateUser models.User `json:"createUser"`
	}
	err := c.query(ctx, `mutation($in: UserInputData) { createUser(userInput: $in) { _id name email status } }`,
		map[string]any{"in": map[string]any{"email": email, "name": name, "password": string(password)}}, &out)
	if err != nil {
		return nil, err
	}
	return &out.CreateUser, nil
}

// Login authenticates and keeps the returned token for later calls.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.AuthData, error) {
	var out struct {
		Login models.AuthData `json:"login"`
	}
	err := c.query(ctx, `query($e: String!, $p: String!) { login(email: $e, password: $p) { token userId } }`,
		map[string]any{"e": email, "p": string(password)}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Login.Token)
	return &out.Login, nil
}

func (c *HTTPClient) Posts(ctx context.Context, page int) (*models.PostsPage, error) {
	var out struct {
		GetPosts models.PostsPage `json:"getPosts"`
	}
	err := c.query(ctx, `query($page: Int!) { getPosts(page: $page) { total_items posts { `+postFields+` } } }`,
		map[string]any{"page": page}, &out)
	if err != nil {
		return nil, err
	}
	return &out.GetPosts, nil
}

func (c *HTTPClient) Post(ctx context.Context, id string) (*models.Post, error) {
	var out struct {
		GetPost models.Post `json:"getPost"`
	}
	err := c.query(ctx, `query($id: ID) { getPost(id: $id) { `+postFields+` } }`, map[string]any{"id": id}, &out)
	if err != nil {
		return nil, err
	}
	return &out.GetPost, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var out struct {
		CreatePost models.Post `json:"createPost"`
	}
	err := c.query(ctx, `mutation($in: PostInputData!) { createPost(postInput: $in) { `+postFields+` } }`,
		map[string]any{"in": in}, &out)
	if err != nil {
		return nil, err
	}
	return &out.CreatePost, nil
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	var out struct {
		UpdatePost models.Post `json:"updatePost"`
	}
	err := c.query(ctx, `mutation($id: ID!, $in: PostInputData!) { updatePost(id: $id, updateData: $in) { `+postFields+` } }`,
		map[string]any{"id": id, "in": in}, &out)
	if err != nil {
		return nil, err
	}
	return &out.UpdatePost, nil
}

type uploadResponse struct {
	Message  string        `json:"message"`
	FilePath string        `json:"filePath"`
	Data     []errorDetail `json:"data"`
}

// UploadImage sends content as the post image and returns the stored path.
func (c *HTTPClient) UploadImage(ctx context.Context, fileName string, content io.Reader) (string, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := netx.NewMultipartRequest(ctx, http.MethodPut, c.baseURL+"/post-image", netx.FilePart{
		Field:       "image",
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
		Content:     content,
	}, nil)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		return "", &APIError{Message: ur.Message, Status: resp.StatusCode, Details: details(ur.Data)}
	case ur.FilePath == "":
		return "", ErrImageRejected
	}
	return ur.FilePath, nil
}
