// Package engagement implements the write paths that touch more than one
// entity: reactions with their notifications, follows, and annotated posts.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"example.com/socialfeed/internal/annotate"
	appkafka "example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
)

var logg = logger.New()

type Service struct {
	store     store.StoreInterface
	publisher appkafka.Publisher
}

// New returns a Service. A nil publisher disables activity events.
func New(st store.StoreInterface, pub appkafka.Publisher) *Service {
	if pub == nil {
		pub = appkafka.NopPublisher{}
	}
	return &Service{store: st, publisher: pub}
}

// ToggleLike flips userID's like on postID and returns the new state and like count.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (bool, int64, error) {
	return s.toggle(ctx, models.ReactionLike, userID, postID)
}

// ToggleRetweet flips userID's retweet of postID and returns the new state and retweet count.
func (s *Service) ToggleRetweet(ctx context.Context, userID, postID string) (bool, int64, error) {
	return s.toggle(ctx, models.ReactionRetweet, userID, postID)
}

// toggle locks the post so concurrent toggles on it serialize into
// alternating flips. The author is notified only on a transition to "on"
// by someone else.
func (s *Service) toggle(ctx context.Context, kind models.Reaction, userID, postID string) (bool, int64, error) {
	var (
		on    bool
		count int64
	)
	err := s.store.Transaction(ctx, func(tx store.StoreInterface) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return err
		}
		post, err := tx.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		on, err = tx.ToggleReaction(ctx, kind, postID, userID)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", kind, err)
		}

		if on && post.AuthorID != userID {
			n := &models.Notification{
				RecipientID: post.AuthorID,
				SenderID:    userID,
				Type:        kind.NotificationType(),
				PostID:      &post.ID,
			}
			if err := tx.CreateNotification(ctx, n); err != nil {
				return fmt.Errorf("notify %s: %w", kind, err)
			}
		}

		count, err = tx.CountReactions(ctx, kind, postID)
		return err
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logg.Error("engagement", "Failed to toggle "+string(kind), err)
		}
		return false, 0, err
	}

	s.publish(ctx, appkafka.Event{
		Type:      appkafka.EventType(kind),
		ActorID:   userID,
		SubjectID: postID,
		PostID:    postID,
		State:     on,
	})
	return on, count, nil
}

// ToggleFollow flips whether followerID follows targetID and returns the new
// state and the target's follower count.
func (s *Service) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, int64, error) {
	following, err := s.store.ToggleFollow(ctx, followerID, targetID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.store.FollowersCount(ctx, targetID)
	if err != nil {
		return false, 0, err
	}

	s.publish(ctx, appkafka.Event{
		Type:      appkafka.EventFollow,
		ActorID:   followerID,
		SubjectID: targetID,
		State:     following,
	})
	return following, count, nil
}

// CreatePostWithAnnotations stores a post and links every distinct hashtag in
// its content, all in one transaction. Mentions are left as plain text.
func (s *Service) CreatePostWithAnnotations(ctx context.Context, authorID, content, image string, replyTo *string) (*models.Post, error) {
	post := &models.Post{AuthorID: authorID, Content: content, Image: image, ReplyToID: replyTo}

	err := s.store.Transaction(ctx, func(tx store.StoreInterface) error {
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}
		for _, name := range annotate.HashtagNames(content) {
			if utf8.RuneCountInString(name) > models.HashtagMaxLen {
				logg.Warn("engagement", "Skipping hashtag longer than the column allows", nil)
				continue
			}
			tag, err := tx.GetOrCreateHashtag(ctx, name)
			if err != nil {
				return fmt.Errorf("hashtag %q: %w", name, err)
			}
			if err := tx.LinkHashtag(ctx, tag.ID, post.ID); err != nil {
				return fmt.Errorf("link hashtag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, appkafka.Event{
		Type:      appkafka.EventPost,
		ActorID:   authorID,
		SubjectID: authorID,
		PostID:    post.ID,
		State:     true,
	})
	return post, nil
}

// publishTimeout bounds how long a write waits on the event publisher.
const publishTimeout = 2 * time.Second

// publish runs detached from request cancellation so a client hanging up
// after a committed write does not drop its event.
func (s *Service) publish(ctx context.Context, ev appkafka.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logg.Warn("engagement", "Failed to publish activity event", err)
	}
}
