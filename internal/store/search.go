package store

import (
	"context"

	"example.com/socialfeed/internal/models"
)

// Substring matches are case-insensitive; the query is escaped so '%' and '_'
// match literally.

func (s *Store) SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Preload("Author").
		Where(`LOWER(content) LIKE ? ESCAPE '\'`, likePattern(query)).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		logg.Error("store", "Failed to search posts", err)
		return nil, err
	}
	return posts, s.attachCounts(ctx, posts)
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := likePattern(query)
	var users []models.User
	err := s.db.WithContext(ctx).
		Where(`LOWER(username) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(first_name) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(last_name) LIKE ? ESCAPE '\'`, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		logg.Error("store", "Failed to search users", err)
		return nil, err
	}
	return users, nil
}

// SearchHashtags matches hashtag names and fills PostsCount.
func (s *Store) SearchHashtags(ctx context.Context, query string, limit int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	db := s.db.WithContext(ctx)
	err := db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(query)).
		Order("name").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		logg.Error("store", "Failed to search hashtags", err)
		return nil, err
	}
	if len(tags) == 0 {
		return tags, nil
	}

	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	var rows []struct {
		HashtagID string
		N         int64
	}
	err = db.Model(&models.HashtagPost{}).
		Select("hashtag_id, COUNT(*) AS n").
		Where("hashtag_id IN ?", ids).
		Group("hashtag_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.HashtagID] = r.N
	}
	for i := range tags {
		tags[i].PostsCount = counts[tags[i].ID]
	}
	return tags, nil
}
