package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/dbx"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
	postsrepo "github.com/dmitrijs2005/inkpost/internal/server/repositories/posts"
	usersrepo "github.com/dmitrijs2005/inkpost/internal/server/repositories/users"
	"github.com/google/uuid"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo keeps users in memory keyed by email.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User

	getErr    error
	createErr error
	creates   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	f.byEmail[u.Email] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// fakePostsRepo keeps posts in memory in insertion order.
type fakePostsRepo struct {
	mu    sync.Mutex
	users *fakeUsersRepo
	posts []*models.Post
	clock time.Time

	err     error
	updates int
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.clock = f.clock.Add(time.Second)
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = f.clock, f.clock
	cp := *p
	f.posts = append(f.posts, &cp)
	return p, nil
}

func (f *fakePostsRepo) withCreator(p *models.Post) *models.Post {
	cp := *p
	if u, err := f.users.GetByID(context.Background(), p.CreatorID); err == nil {
		u.PasswordHash = ""
		cp.Creator = u
	}
	return &cp
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.posts {
		if p.ID == id {
			return f.withCreator(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePostsRepo) sorted() []*models.Post {
	out := append([]*models.Post(nil), f.posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakePostsRepo) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	all := f.sorted()
	result := make([]*models.Post, 0)
	for i := offset; i < len(all) && i < offset+limit; i++ {
		result = append(result, f.withCreator(all[i]))
	}
	return result, nil
}

func (f *fakePostsRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.posts), nil
}

func (f *fakePostsRepo) ListByCreator(ctx context.Context, creatorID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*models.Post, 0)
	for _, p := range f.sorted() {
		if p.CreatorID == creatorID {
			result = append(result, f.withCreator(p))
		}
	}
	return result, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.err != nil {
		return nil, f.err
	}
	for i, cur := range f.posts {
		if cur.ID == p.ID {
			f.clock = f.clock.Add(time.Second)
			p.UpdatedAt = f.clock
			cp := *p
			cp.Creator = nil
			f.posts[i] = &cp
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	posts *fakePostsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	u := newFakeUsersRepo()
	return &fakeRepoManager{users: u, posts: &fakePostsRepo{users: u, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository       { return m.posts }

// plainHasher avoids bcrypt cost in service tests.
type plainHasher struct{ err error }

func (h plainHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h plainHasher) Verify(p, hash string) bool { return hash == "hashed:"+p }

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token-for-%s", userID), nil
}

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (r *recordingRemover) Delete(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return r.err
}
