// Package gql exposes the services through a GraphQL schema.
package gql

import (
	"context"
	_ "embed"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
	"github.com/dmitrijs2005/inkpost/internal/server/services"
	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// timeLayout matches JavaScript's Date.toISOString.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.AuthData, error)
}

type PostService interface {
	CreatePost(ctx context.Context, ac auth.AuthContext, in services.PostInput) (*models.Post, error)
	ListPosts(ctx context.Context, page int) (*models.PostPage, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, ac auth.AuthContext, id string, in services.PostInput) (*models.Post, error)
	ListByCreator(ctx context.Context, userID string) ([]*models.Post, error)
}

// Events receives authentication outcomes, e.g. for metrics.
type Events interface {
	RecordLogin(ok bool)
	RecordRegistration(ok bool)
	RecordPostCreated()
}

type Resolver struct {
	users  UserService
	posts  PostService
	events Events
	log    logging.Logger
}

func NewResolver(users UserService, posts PostService, events Events, log logging.Logger) *Resolver {
	if events == nil {
		events = noEvents{}
	}
	return &Resolver{users: users, posts: posts, events: events, log: log.With("module", "graphql")}
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(12),
		graphql.MaxParallelism(8),
	)
}

// fail turns err into a client-safe error. Internal causes never reach the
// response; the services have already logged them.
func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	pub := common.Public(err)
	r.log.Debug(ctx, op+" failed", "kind", string(pub.Kind), "error", err)
	return pub
}

type noEvents struct{}

func (noEvents) RecordLogin(bool)        {}
func (noEvents) RecordRegistration(bool) {}
func (noEvents) RecordPostCreated()      {}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
