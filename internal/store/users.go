package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"example.com/socialfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// --- User operations ---

// CreateUser validates and inserts a new user, assigning its ID.
// A taken username yields ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := validateUser(u); err != nil {
		return err
	}
	u.ID = newID()

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("username %q is taken: %w", u.Username, ErrConflict)
		}
		logg.Error("store", "Failed to create user", err)
		return err
	}

	logg.Info("store", "User created successfully (username anonymized)")
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields of upd to the user.
func (s *Store) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "user", id)
		}
		applyProfile(&u, upd)
		if err := validateUser(&u); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Follow operations ---

// ToggleFollow flips whether followerID follows targetID and returns the new state.
// The follower row is locked so concurrent toggles by the same user serialize.
func (s *Store) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfAction
	}

	var following bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var follower models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&follower, "id = ?", followerID).Error; err != nil {
			return notFoundOr(err, "user", followerID)
		}
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", targetID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return notFound("user", targetID)
		}

		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, targetID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}

		if err := tx.Create(&models.Follow{FollowerID: followerID, FolloweeID: targetID}).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logg.Error("store", "Failed to toggle follow relationship", err)
		}
		return false, err
	}

	logg.Info("store", "Follow relationship toggled (user IDs anonymized)")
	return following, nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, targetID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) FollowersCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Store) FollowingCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// --- Validation ---

func validateUser(u *models.User) error {
	n := utf8.RuneCountInString(u.Username)
	switch {
	case n == 0:
		return invalid("username", "required")
	case n > 150:
		return invalid("username", "must be at most 150 characters")
	case !usernamePattern.MatchString(u.Username):
		return invalid("username", "may contain only letters, digits and @/./+/-/_")
	}

	limits := []struct {
		field string
		value string
		max   int
	}{
		{"first_name", u.FirstName, 150},
		{"last_name", u.LastName, 150},
		{"email", u.Email, 254},
		{"bio", u.Bio, 500},
		{"location", u.Location, 100},
		{"website", u.Website, 200},
		{"avatar", u.Avatar, 255},
		{"cover_photo", u.CoverPhoto, 255},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return invalid(l.field, fmt.Sprintf("must be at most %d characters", l.max))
		}
	}
	return nil
}

func applyProfile(u *models.User, upd models.ProfileUpdate) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.FirstName, upd.FirstName)
	set(&u.LastName, upd.LastName)
	set(&u.Email, upd.Email)
	set(&u.Bio, upd.Bio)
	set(&u.Location, upd.Location)
	set(&u.Website, upd.Website)
	set(&u.Avatar, upd.Avatar)
	set(&u.CoverPhoto, upd.CoverPhoto)
	if upd.BirthDate != nil {
		u.BirthDate = upd.BirthDate
	}
}
