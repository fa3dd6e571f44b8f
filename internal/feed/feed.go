// Package feed composes paginated post timelines.
package feed

import (
	"context"

	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
)

var logg = logger.New()

// DefaultPageSize is used when the composer is built with a non-positive size.
const DefaultPageSize = 10

// Page is one window of a timeline.
type Page struct {
	Number      int           `json:"page"`
	NumPages    int           `json:"num_pages"`
	Total       int64         `json:"total"`
	PageSize    int           `json:"page_size"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
	Posts       []models.Post `json:"posts"`
}

type Composer struct {
	store    store.StoreInterface
	pageSize int
}

func New(st store.StoreInterface, pageSize int) *Composer {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Composer{store: st, pageSize: pageSize}
}

// ComposeFeed returns a page of posts visible to viewerID: their own and those
// of the users they follow. An empty viewerID sees every post.
func (c *Composer) ComposeFeed(ctx context.Context, viewerID string, page, pageSize int) (*Page, error) {
	return c.compose(ctx, store.PostFilter{FollowedBy: viewerID}, page, pageSize)
}

// ComposeHashtagFeed pages through the posts tagged with name.
func (c *Composer) ComposeHashtagFeed(ctx context.Context, name string, page, pageSize int) (*models.Hashtag, *Page, error) {
	tag, err := c.store.GetHashtagByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	p, err := c.compose(ctx, store.PostFilter{HashtagID: tag.ID}, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	tag.PostsCount = p.Total
	return tag, p, nil
}

// ComposeUserPosts pages through the posts authored by userID.
func (c *Composer) ComposeUserPosts(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	return c.compose(ctx, store.PostFilter{AuthorID: userID}, page, pageSize)
}

// compose counts and lists in one transaction so the window matches the total.
func (c *Composer) compose(ctx context.Context, f store.PostFilter, page, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	var out *Page
	err := c.store.Transaction(ctx, func(tx store.StoreInterface) error {
		total, err := tx.CountPosts(ctx, f)
		if err != nil {
			return err
		}
		p := newPage(total, page, pageSize)
		posts, err := tx.ListPosts(ctx, f, (p.Number-1)*pageSize, pageSize)
		if err != nil {
			return err
		}
		if posts == nil {
			posts = []models.Post{}
		}
		p.Posts = posts
		out = p
		return nil
	})
	if err != nil {
		logg.Error("feed", "Failed to compose feed", err)
		return nil, err
	}
	return out, nil
}

// newPage clamps the requested page number into [1, NumPages]. An empty
// result is page 1 of 1.
func newPage(total int64, page, pageSize int) *Page {
	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	numPages = max(numPages, 1)
	page = min(max(page, 1), numPages)
	return &Page{
		Number:      page,
		NumPages:    numPages,
		Total:       total,
		PageSize:    pageSize,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}
}
