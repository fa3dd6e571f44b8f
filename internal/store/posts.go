package store

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"example.com/socialfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxContentLength is the post length limit in code points.
const MaxContentLength = 280

// PostFilter restricts which posts CountPosts and ListPosts see.
// Zero value matches every post.
type PostFilter struct {
	AuthorID   string // only posts by this author
	FollowedBy string // posts by this user or anyone they follow
	HashtagID  string // only posts linked to this hashtag
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Post{})
	if f.AuthorID != "" {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FollowedBy != "" {
		followees := db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", f.FollowedBy)
		q = q.Where("posts.author_id = ? OR posts.author_id IN (?)", f.FollowedBy, followees)
	}
	if f.HashtagID != "" {
		linked := db.Model(&models.HashtagPost{}).Select("post_id").Where("hashtag_id = ?", f.HashtagID)
		q = q.Where("posts.id IN (?)", linked)
	}
	return q
}

// --- Post operations ---

// CreatePost validates and inserts p. It creates no hashtags or notifications.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if err := validatePost(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.ReplyToID != nil && *p.ReplyToID == p.ID {
		return invalid("reply_to", "a post cannot reply to itself")
	}

	db := s.db.WithContext(ctx)
	if err := exists(db, &models.User{}, p.AuthorID, "user"); err != nil {
		return err
	}
	if p.ReplyToID != nil {
		if err := exists(db, &models.Post{}, *p.ReplyToID, "post"); err != nil {
			return err
		}
	}

	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		logg.Error("store", "Failed to add post", err)
		return err
	}

	logg.Info("store", "Post added to posts table (post content anonymized)")
	return nil
}

// GetPost returns the post with its author and live counts.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "post", id)
	}
	posts := []models.Post{p}
	if err := s.attachCounts(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// LockPost loads the post row FOR UPDATE. Call it inside Transaction.
func (s *Store) LockPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "post", id)
	}
	return &p, nil
}

// ListReplies returns direct replies to postID, newest first.
func (s *Store) ListReplies(ctx context.Context, postID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Preload("Author").
		Where("reply_to_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.attachCounts(ctx, posts)
}

func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	var n int64
	err := f.apply(s.db.WithContext(ctx)).Count(&n).Error
	return n, err
}

// ListPosts returns one window of the filtered posts, newest first,
// with authors and live counts attached.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := f.apply(s.db.WithContext(ctx)).
		Preload("Author").
		Order("posts.created_at DESC").Order("posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		logg.Error("store", "Failed to list posts", err)
		return nil, err
	}
	return posts, s.attachCounts(ctx, posts)
}

func (s *Store) PostCounts(ctx context.Context, postID string) (models.PostCounts, error) {
	posts := []models.Post{{ID: postID}}
	if err := s.attachCounts(ctx, posts); err != nil {
		return models.PostCounts{}, err
	}
	return posts[0].PostCounts, nil
}

// --- Reactions ---

// ToggleReaction flips userID's membership in the post's like or retweet set
// and returns the new state. Callers serialize per post with LockPost.
func (s *Store) ToggleReaction(ctx context.Context, kind models.Reaction, postID, userID string) (bool, error) {
	model, row, err := reactionRow(kind, postID, userID)
	if err != nil {
		return false, err
	}
	db := s.db.WithContext(ctx)

	res := db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) CountReactions(ctx context.Context, kind models.Reaction, postID string) (int64, error) {
	model, _, err := reactionRow(kind, postID, "")
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(model).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// reactionRow returns an empty model (for queries) and a populated row (for inserts).
func reactionRow(kind models.Reaction, postID, userID string) (any, any, error) {
	switch kind {
	case models.ReactionLike:
		return &models.PostLike{}, &models.PostLike{PostID: postID, UserID: userID}, nil
	case models.ReactionRetweet:
		return &models.PostRetweet{}, &models.PostRetweet{PostID: postID, UserID: userID}, nil
	default:
		return nil, nil, fmt.Errorf("unknown reaction %q", kind)
	}
}

// --- Hashtags ---

// GetOrCreateHashtag returns the hashtag with this exact name, creating it on first use.
// Concurrent first uses rely on the unique index: the losing insert does nothing
// and the row is read back.
func (s *Store) GetOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	if name == "" {
		return nil, invalid("hashtag", "required")
	}
	if utf8.RuneCountInString(name) > models.HashtagMaxLen {
		return nil, invalid("hashtag", fmt.Sprintf("must be at most %d characters", models.HashtagMaxLen))
	}

	db := s.db.WithContext(ctx)
	tag := models.Hashtag{ID: newID(), Name: name}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&tag)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &tag, nil
	}

	var existing models.Hashtag
	if err := db.First(&existing, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Store) GetHashtagByName(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := s.db.WithContext(ctx).First(&tag, "name = ?", name).Error; err != nil {
		return nil, notFoundOr(err, "hashtag", name)
	}
	return &tag, nil
}

// LinkHashtag associates a hashtag with a post; linking twice is a no-op.
func (s *Store) LinkHashtag(ctx context.Context, hashtagID, postID string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.HashtagPost{HashtagID: hashtagID, PostID: postID}).Error
}

func (s *Store) HashtagsForPost(ctx context.Context, postID string) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := s.db.WithContext(ctx).
		Joins("JOIN hashtag_posts ON hashtag_posts.hashtag_id = hashtags.id").
		Where("hashtag_posts.post_id = ?", postID).
		Order("hashtags.name").
		Find(&tags).Error
	return tags, err
}

// --- Helpers ---

func validatePost(p *models.Post) error {
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content", "required")
	}
	if utf8.RuneCountInString(p.Content) > MaxContentLength {
		return invalid("content", fmt.Sprintf("must be at most %d characters", MaxContentLength))
	}
	if utf8.RuneCountInString(p.Image) > 255 {
		return invalid("image", "must be at most 255 characters")
	}
	return nil
}

func exists(db *gorm.DB, model any, id, entity string) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

type countRow struct {
	PostID string
	N      int64
}

// attachCounts fills likes, retweets and replies counts for posts with one
// grouped query per relation.
func (s *Store) attachCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	relations := []struct {
		model  any
		column string
		set    func(c *models.PostCounts, n int64)
	}{
		{&models.PostLike{}, "post_id", func(c *models.PostCounts, n int64) { c.Likes = n }},
		{&models.PostRetweet{}, "post_id", func(c *models.PostCounts, n int64) { c.Retweets = n }},
		{&models.Post{}, "reply_to_id", func(c *models.PostCounts, n int64) { c.Replies = n }},
	}

	db := s.db.WithContext(ctx)
	for _, rel := range relations {
		var rows []countRow
		err := db.Model(rel.model).
			Select(rel.column+" AS post_id, COUNT(*) AS n").
			Where(rel.column+" IN ?", ids).
			Group(rel.column).
			Scan(&rows).Error
		if err != nil {
			logg.Error("store", "Failed to count post relations", err)
			return err
		}
		for _, r := range rows {
			if i, ok := index[r.PostID]; ok {
				rel.set(&posts[i].PostCounts, r.N)
			}
		}
	}
	return nil
}
