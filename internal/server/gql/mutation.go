package gql

import (
	"context"

	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/services"
	graphql "github.com/graph-gophers/graphql-go"
)

type userInput struct {
	Email    string
	Name     string
	Password string
}

type postInput struct {
	Title    string
	Content  string
	ImageURL *string
}

func (in postInput) toService() services.PostInput {
	out := services.PostInput{Title: in.Title, Content: in.Content}
	if in.ImageURL != nil {
		out.ImageURL = *in.ImageURL
	}
	return out
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput *userInput }) (*userResolver, error) {
	var in services.RegisterInput
	if args.UserInput != nil {
		in = services.RegisterInput{
			Email:    args.UserInput.Email,
			Name:     args.UserInput.Name,
			Password: args.UserInput.Password,
		}
	}

	u, err := r.users.Register(ctx, in)
	r.events.RecordRegistration(err == nil)
	if err != nil {
		return nil, r.fail(ctx, "createUser", err)
	}
	return &userResolver{root: r, user: u}, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput postInput }) (*postResolver, error) {
	p, err := r.posts.CreatePost(ctx, auth.FromContext(ctx), args.PostInput.toService())
	if err != nil {
		return nil, r.fail(ctx, "createPost", err)
	}
	r.events.RecordPostCreated()
	return &postResolver{root: r, post: p}, nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID         graphql.ID
	UpdateData postInput
}) (*postResolver, error) {
	p, err := r.posts.UpdatePost(ctx, auth.FromContext(ctx), string(args.ID), args.UpdateData.toService())
	if err != nil {
		return nil, r.fail(ctx, "updatePost", err)
	}
	return &postResolver{root: r, post: p}, nil
}
