package gql

import (
	"context"

	"github.com/dmitrijs2005/inkpost/internal/server/models"
	graphql "github.com/graph-gophers/graphql-go"
)

type authDataResolver struct {
	token  string
	userID string
}

func (a *authDataResolver) Token() string  { return a.token }
func (a *authDataResolver) UserID() string { return a.userID }

type postsPageResolver struct {
	posts []*postResolver
	total int32
}

func (p *postsPageResolver) Posts() []*postResolver { return p.posts }
func (p *postsPageResolver) TotalItems() int32      { return p.total }

type postResolver struct {
	root *Resolver
	post *models.Post
}

func (p *postResolver) ID() *graphql.ID {
	id := graphql.ID(p.post.ID)
	return &id
}

func (p *postResolver) Title() string     { return p.post.Title }
func (p *postResolver) Content() string   { return p.post.Content }
func (p *postResolver) ImageURL() string  { return p.post.ImageURL }
func (p *postResolver) CreatedAt() string { return formatTime(p.post.CreatedAt) }
func (p *postResolver) UpdatedAt() string { return formatTime(p.post.UpdatedAt) }

func (p *postResolver) Creator() *userResolver {
	u := p.post.Creator
	if u == nil {
		u = &models.User{ID: p.post.CreatorID}
	}
	return &userResolver{root: p.root, user: u}
}

type userResolver struct {
	root *Resolver
	user *models.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Name() string   { return u.user.Name }
func (u *userResolver) Email() string  { return u.user.Email }
func (u *userResolver) Status() string { return u.user.Status }

// Password is part of the schema for compatibility but always resolves to null.
func (u *userResolver) Password() *string { return nil }

func (u *userResolver) Posts(ctx context.Context) (*[]*postResolver, error) {
	items, err := u.root.posts.ListByCreator(ctx, u.user.ID)
	if err != nil {
		return nil, u.root.fail(ctx, "user posts", err)
	}

	out := make([]*postResolver, 0, len(items))
	for _, p := range items {
		out = append(out, &postResolver{root: u.root, post: p})
	}
	return &out, nil
}
