package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/dbx"
	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
	"github.com/dmitrijs2005/inkpost/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const postNotFound = "Post not found"

type PostInput struct {
	Title    string `validate:"min=3"`
	Content  string `validate:"min=5"`
	ImageURL string
}

// PageCache caches listing pages. GetPage returns the key a freshly loaded
// page must be stored under; it is fixed before the database read so a
// concurrent Invalidate cannot be overwritten. Implementations must be safe
// for concurrent use; failures are treated as misses.
type PageCache interface {
	GetPage(ctx context.Context, page, perPage int) (*models.PostPage, string, bool)
	SetPage(ctx context.Context, key string, p *models.PostPage)
	Invalidate(ctx context.Context)
}

// ImageRemover deletes a stored image by the path handed out at upload.
type ImageRemover interface {
	Delete(ctx context.Context, path string) error
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sanitizer   *Sanitizer
	cache       PageCache
	images      ImageRemover
	perPage     int
	validate    *validator.Validate
	log         logging.Logger
}

// NewPostService builds the service. cache and images may be nil.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager, perPage int, cache PageCache, images ImageRemover, log logging.Logger) *PostService {
	if cache == nil {
		cache = noCache{}
	}
	return &PostService{
		db:          db,
		repomanager: m,
		sanitizer:   NewSanitizer(),
		cache:       cache,
		images:      images,
		perPage:     perPage,
		validate:    newValidator(),
		log:         log.With("module", "posts"),
	}
}

func (s *PostService) clean(in PostInput) (PostInput, error) {
	in.Title = s.sanitizer.Title(in.Title)
	in.Content = s.sanitizer.Content(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateStruct(s.validate, in); err != nil {
		return in, err
	}
	return in, nil
}

// CreatePost stores a post owned by the caller.
func (s *PostService) CreatePost(ctx context.Context, ac auth.AuthContext, in PostInput) (*models.Post, error) {
	userID, err := auth.RequireAuth(ac)
	if err != nil {
		return nil, err
	}

	in, err = s.clean(in)
	if err != nil {
		return nil, err
	}

	creator, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthenticated("Invalid user")
		}
		s.log.Error(ctx, "lookup creator", "error", err)
		return nil, common.Internal(err)
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatorID: creator.ID,
	})
	if err != nil {
		s.log.Error(ctx, "create post", "error", err)
		return nil, common.Internal(err)
	}
	creator.PasswordHash = ""
	post.Creator = creator

	s.cache.Invalidate(ctx)
	s.log.Info(ctx, "post created", "post_id", post.ID, "user_id", userID)
	return post, nil
}

// ListPosts returns one page of posts, newest first. Pages start at 1;
// smaller values are treated as 1.
func (s *PostService) ListPosts(ctx context.Context, page int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}

	cached, key, ok := s.cache.GetPage(ctx, page, s.perPage)
	if ok {
		return cached, nil
	}

	repo := s.repomanager.Posts(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		s.log.Error(ctx, "count posts", "error", err)
		return nil, common.Internal(err)
	}

	items, err := repo.List(ctx, (page-1)*s.perPage, s.perPage)
	if err != nil {
		s.log.Error(ctx, "list posts", "error", err)
		return nil, common.Internal(err)
	}

	result := &models.PostPage{Posts: items, TotalItems: total}
	s.cache.SetPage(ctx, key, result)
	return result, nil
}

// GetPost returns a single post with its creator.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NotFound(postNotFound)
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(postNotFound)
		}
		s.log.Error(ctx, "get post", "error", err)
		return nil, common.Internal(err)
	}
	return post, nil
}

// ListByCreator returns every post of one user, newest first.
func (s *PostService) ListByCreator(ctx context.Context, userID string) ([]*models.Post, error) {
	items, err := s.repomanager.Posts(s.db).ListByCreator(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "list posts by creator", "error", err)
		return nil, common.Internal(err)
	}
	return items, nil
}

// UpdatePost replaces title and content of a post owned by the caller. The
// image changes only when a different, non-empty url is given; the old image
// is then removed from storage.
func (s *PostService) UpdatePost(ctx context.Context, ac auth.AuthContext, id string, in PostInput) (*models.Post, error) {
	userID, err := auth.RequireAuth(ac)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NotFound(postNotFound)
	}

	in, err = s.clean(in)
	if err != nil {
		return nil, err
	}

	var (
		updated  *models.Post
		oldImage string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		post, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NotFound(postNotFound)
			}
			return err
		}
		if post.CreatorID != userID {
			return common.ErrForbidden
		}

		post.Title = in.Title
		post.Content = in.Content
		if in.ImageURL != "" && in.ImageURL != post.ImageURL {
			oldImage = post.ImageURL
			post.ImageURL = in.ImageURL
		}

		updated, err = repo.Update(ctx, post)
		return err
	})
	if err != nil {
		var e *common.Error
		if errors.As(err, &e) {
			return nil, err
		}
		s.log.Error(ctx, "update post", "error", err)
		return nil, common.Internal(err)
	}

	if oldImage != "" && s.images != nil {
		if err := s.images.Delete(ctx, oldImage); err != nil {
			s.log.Warn(ctx, "remove replaced image", "path", oldImage, "error", err)
		}
	}

	s.cache.Invalidate(ctx)
	s.log.Info(ctx, "post updated", "post_id", id, "user_id", userID)
	return updated, nil
}

type noCache struct{}

func (noCache) GetPage(context.Context, int, int) (*models.PostPage, string, bool) {
	return nil, "", false
}
func (noCache) SetPage(context.Context, string, *models.PostPage) {}
func (noCache) Invalidate(context.Context)                        {}
