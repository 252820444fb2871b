package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/client/models"
)

const timeFormat = "2006-01-02 15:04"

func (a *App) printPost(p *models.Post, full bool) {
	author := ""
	if p.Creator != nil {
		author = p.Creator.Name
	}
	fmt.Fprintf(a.out, "[%s] %s by %s, %s\n", p.ID, p.Title, author, p.CreatedAt.Local().Format(timeFormat))
	if !full {
		return
	}
	if p.UpdatedAt.After(p.CreatedAt.Add(time.Second)) {
		fmt.Fprintf(a.out, "updated %s\n", p.UpdatedAt.Local().Format(timeFormat))
	}
	if p.ImageURL != "" {
		fmt.Fprintf(a.out, "image: %s/%s\n", a.config.ServerEndpointAddr, p.ImageURL)
	}
	fmt.Fprintf(a.out, "\n%s\n", p.Content)
}

func (a *App) Posts(ctx context.Context, page int) error {
	res, err := a.api.Posts(ctx, page)
	if err != nil {
		return err
	}
	if len(res.Posts) == 0 {
		fmt.Fprintf(a.out, "No posts on page %d (%d total)\n", page, res.TotalItems)
		return nil
	}
	for _, p := range res.Posts {
		a.printPost(p, false)
	}
	fmt.Fprintf(a.out, "page %d, %d posts total\n", page, res.TotalItems)
	return nil
}

func (a *App) Post(ctx context.Context, id string) error {
	p, err := a.api.Post(ctx, id)
	if err != nil {
		return err
	}
	a.printPost(p, true)
	return nil
}

// uploadFile sends the file at path and returns the stored image path.
func (a *App) uploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return a.api.UploadImage(ctx, path, f)
}

func (a *App) Upload(ctx context.Context, path string) error {
	stored, err := a.uploadFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "File stored as %s\n", stored)
	return nil
}

// Create prompts for a title, content and an optional image file.
func (a *App) Create(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}
	imageFile, err := GetSimpleText(a.reader, "Image file (empty for none)", a.out)
	if err != nil {
		return err
	}

	in := models.PostInput{Title: title, Content: content}
	if imageFile != "" {
		if in.ImageURL, err = a.uploadFile(ctx, imageFile); err != nil {
			return err
		}
	}

	p, err := a.api.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created post %s\n", p.ID)
	return nil
}

// Edit loads a post and prompts for replacements; empty answers keep the
// current value. The server removes a replaced image.
func (a *App) Edit(ctx context.Context, id string) error {
	cur, err := a.api.Post(ctx, id)
	if err != nil {
		return err
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Enter title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Enter content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	imageFile, err := GetSimpleText(a.reader, "New image file (empty keeps the current image)", a.out)
	if err != nil {
		return err
	}

	in := models.PostInput{Title: cur.Title, Content: cur.Content}
	if title != "" {
		in.Title = title
	}
	if content != "" {
		in.Content = content
	}
	if imageFile != "" {
		if in.ImageURL, err = a.uploadFile(ctx, imageFile); err != nil {
			return err
		}
	}

	p, err := a.api.UpdatePost(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated post %s\n", p.ID)
	return nil
}
