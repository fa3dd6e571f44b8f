// Package search answers the free-text search box.
package search

import (
	"context"
	"strings"

	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
)

// Result caps.
const (
	MaxPosts    = 20
	MaxUsers    = 10
	MaxHashtags = 10
)

type Results struct {
	Query    string           `json:"query"`
	Posts    []models.Post    `json:"posts"`
	Users    []models.User    `json:"users"`
	Hashtags []models.Hashtag `json:"hashtags"`
}

type Index struct {
	store store.StoreInterface
}

func New(st store.StoreInterface) *Index {
	return &Index{store: st}
}

// Search matches posts and users against the whole query. Hashtags are only
// searched for queries starting with '#', using the text after it; a bare "#"
// lists hashtags up to MaxHashtags.
func (ix *Index) Search(ctx context.Context, query string) (*Results, error) {
	q := strings.TrimSpace(query)
	res := &Results{
		Query:    q,
		Posts:    []models.Post{},
		Users:    []models.User{},
		Hashtags: []models.Hashtag{},
	}
	if q == "" {
		return res, nil
	}

	posts, err := ix.store.SearchPosts(ctx, q, MaxPosts)
	if err != nil {
		return nil, err
	}
	users, err := ix.store.SearchUsers(ctx, q, MaxUsers)
	if err != nil {
		return nil, err
	}
	res.Posts = append(res.Posts, posts...)
	res.Users = append(res.Users, users...)

	if name, ok := strings.CutPrefix(q, "#"); ok {
		tags, err := ix.store.SearchHashtags(ctx, name, MaxHashtags)
		if err != nil {
			return nil, err
		}
		res.Hashtags = append(res.Hashtags, tags...)
	}
	return res, nil
}
