package gql

import (
	"context"

	"github.com/dmitrijs2005/inkpost/internal/common"
	graphql "github.com/graph-gophers/graphql-go"
)

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authDataResolver, error) {
	data, err := r.users.Login(ctx, args.Email, args.Password)
	r.events.RecordLogin(err == nil)
	if err != nil {
		return nil, r.fail(ctx, "login", err)
	}
	return &authDataResolver{token: data.Token, userID: data.UserID}, nil
}

func (r *Resolver) GetPosts(ctx context.Context, args struct{ Page int32 }) (*postsPageResolver, error) {
	page, err := r.posts.ListPosts(ctx, int(args.Page))
	if err != nil {
		return nil, r.fail(ctx, "getPosts", err)
	}

	items := make([]*postResolver, 0, len(page.Posts))
	for _, p := range page.Posts {
		items = append(items, &postResolver{root: r, post: p})
	}
	return &postsPageResolver{posts: items, total: int32(page.TotalItems)}, nil
}

func (r *Resolver) GetPost(ctx context.Context, args struct{ ID *graphql.ID }) (*postResolver, error) {
	if args.ID == nil {
		return nil, common.NotFound(postNotFound)
	}
	p, err := r.posts.GetPost(ctx, string(*args.ID))
	if err != nil {
		return nil, r.fail(ctx, "getPost", err)
	}
	return &postResolver{root: r, post: p}, nil
}

const postNotFound = "Post not found"
