package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/client/client"
	"github.com/dmitrijs2005/inkpost/internal/client/config"
	"github.com/dmitrijs2005/inkpost/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token    string
	password []byte

	posts    map[string]*models.Post
	created  []models.PostInput
	updated  []models.PostInput
	uploaded []string
	loginErr error
}

func newFakeAPI() *fakeAPI {
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return &fakeAPI{posts: map[string]*models.Post{
		"p1": {ID: "p1", Title: "First", Content: "Hello there", ImageURL: "images/a.png",
			Creator: &models.User{ID: "u1", Name: "Ann"}, CreatedAt: at, UpdatedAt: at},
	}}
}

func (f *fakeAPI) Register(ctx context.Context, email, name string, password []byte) (*models.User, error) {
	f.password = password
	return &models.User{ID: "u1", Email: email, Name: name}, nil
}

func (f *fakeAPI) Login(ctx context.Context, email string, password []byte) (*models.AuthData, error) {
	f.password = password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = "tok"
	return &models.AuthData{Token: "tok", UserID: "u1"}, nil
}

func (f *fakeAPI) Posts(ctx context.Context, page int) (*models.PostsPage, error) {
	if page > 1 {
		return &models.PostsPage{TotalItems: 1}, nil
	}
	return &models.PostsPage{Posts: []*models.Post{f.posts["p1"]}, TotalItems: 1}, nil
}

func (f *fakeAPI) Post(ctx context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, &client.APIError{Message: "Post not found", Status: 404}
	}
	return p, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	f.created = append(f.created, in)
	return &models.Post{ID: "p2", Title: in.Title}, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	f.updated = append(f.updated, in)
	return &models.Post{ID: id, Title: in.Title}, nil
}

func (f *fakeAPI) UploadImage(ctx context.Context, fileName string, content io.Reader) (string, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, string(b))
	return "images/up.png", nil
}

func (f *fakeAPI) SetToken(token string) { f.token = token }
func (f *fakeAPI) Token() string         { return f.token }

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func runScript(t *testing.T, api *fakeAPI, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a := newApp(cfg, api, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	a.Run(context.Background())
	return out.String()
}

func TestSession_LoginBrowseLogout(t *testing.T) {
	stubPassword(t, "secret")
	api := newFakeAPI()

	out := runScript(t, api,
		"help",
		"login", "ann@example.com",
		"posts",
		"posts 2",
		"posts x",
		"post p1",
		"post nope",
		"logout",
		"bogus",
		"exit",
	)

	assert.Contains(t, out, "Available commands: register, login")
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "inkpost(ann@example.com)> ")
	assert.Contains(t, out, "[p1] First by Ann")
	assert.Contains(t, out, "No posts on page 2 (1 total)")
	assert.Contains(t, out, "Usage: posts [page]")
	assert.Contains(t, out, "image: http://127.0.0.1:8080/images/a.png")
	assert.Contains(t, out, "Error: Post not found")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Bye!")
	assert.Equal(t, "", api.token)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, api.password, "password buffer is wiped")
}

func TestRegister(t *testing.T) {
	stubPassword(t, "secret")
	api := newFakeAPI()

	out := runScript(t, api, "register", "ann@example.com", "Ann", "exit")
	assert.Contains(t, out, "Registered ann@example.com (id u1)")
}

func TestCreateWithImage(t *testing.T) {
	img := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0o600))

	api := newFakeAPI()
	api.token = "tok"

	out := runScript(t, api,
		"create", "My title", "line one", "line two", "", img,
		"exit",
	)

	assert.Contains(t, out, "Created post p2")
	require.Len(t, api.created, 1)
	assert.Equal(t, models.PostInput{Title: "My title", Content: "line one\nline two", ImageURL: "images/up.png"}, api.created[0])
	assert.Equal(t, []string{"png-bytes"}, api.uploaded)
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	api := newFakeAPI()
	api.token = "tok"

	out := runScript(t, api, "edit p1", "", "", "", "exit")

	assert.Contains(t, out, "Updated post p1")
	require.Len(t, api.updated, 1)
	assert.Equal(t, models.PostInput{Title: "First", Content: "Hello there"}, api.updated[0])
	assert.Empty(t, api.uploaded)
}

func TestUploadMissingFile(t *testing.T) {
	api := newFakeAPI()
	out := runScript(t, api, "upload", "upload /does/not/exist.png", "exit")
	assert.Contains(t, out, "Usage: upload <file>")
	assert.Contains(t, out, "Error: open /does/not/exist.png")
}

func TestRunEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a := newApp(cfg, newFakeAPI(), strings.NewReader("help"), &out)
	a.Run(context.Background())
	assert.Contains(t, out.String(), "Available commands")
}
