package store

import (
	"context"
	"errors"

	"example.com/socialfeed/internal/models"
)

// ---------------------------------------------
// MockStoreFail always returns errors for negative tests
type MockStoreFail struct{}

var _ StoreInterface = (*MockStoreFail)(nil)

var errMockFail = errors.New("mock store failure")

func (m *MockStoreFail) Close() {}

func (m *MockStoreFail) Transaction(ctx context.Context, fn func(tx StoreInterface) error) error {
	return fn(m)
}

func (m *MockStoreFail) CreateUser(ctx context.Context, u *models.User) error {
	return errors.New("mock store create user failed")
}

func (m *MockStoreFail) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, errors.New("mock store get user failed")
}

func (m *MockStoreFail) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, errors.New("mock store get user by username failed")
}

func (m *MockStoreFail) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	return nil, errors.New("mock store update profile failed")
}

func (m *MockStoreFail) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	return false, errors.New("mock store toggle follow failed")
}

func (m *MockStoreFail) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	return false, errMockFail
}

func (m *MockStoreFail) FollowersCount(ctx context.Context, userID string) (int64, error) {
	return 0, errMockFail
}

func (m *MockStoreFail) FollowingCount(ctx context.Context, userID string) (int64, error) {
	return 0, errMockFail
}

func (m *MockStoreFail) CreatePost(ctx context.Context, p *models.Post) error {
	return errors.New("mock store add post failed")
}

func (m *MockStoreFail) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return nil, errors.New("mock store get post failed")
}

func (m *MockStoreFail) LockPost(ctx context.Context, id string) (*models.Post, error) {
	return nil, errors.New("mock store lock post failed")
}

func (m *MockStoreFail) ListReplies(ctx context.Context, postID string) ([]models.Post, error) {
	return nil, errMockFail
}

func (m *MockStoreFail) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	return 0, errors.New("mock store count posts failed")
}

func (m *MockStoreFail) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	return nil, errors.New("mock store get feed failed")
}

func (m *MockStoreFail) PostCounts(ctx context.Context, postID string) (models.PostCounts, error) {
	return models.PostCounts{}, errMockFail
}

func (m *MockStoreFail) ToggleReaction(ctx context.Context, kind models.Reaction, postID, userID string) (bool, error) {
	return false, errMockFail
}

func (m *MockStoreFail) CountReactions(ctx context.Context, kind models.Reaction, postID string) (int64, error) {
	return 0, errMockFail
}

func (m *MockStoreFail) GetOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	return nil, errMockFail
}

func (m *MockStoreFail) GetHashtagByName(ctx context.Context, name string) (*models.Hashtag, error) {
	return nil, errMockFail
}

func (m *MockStoreFail) LinkHashtag(ctx context.Context, hashtagID, postID string) error {
	return errMockFail
}

func (m *MockStoreFail) HashtagsForPost(ctx context.Context, postID string) ([]models.Hashtag, error) {
	return nil, errMockFail
}

func (m *MockStoreFail) CreateNotification(ctx context.Context, n *models.Notification) error {
	return errMockFail
}

func (m *MockStoreFail) ListNotifications(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	return nil, errMockFail
}

func (m *MockStoreFail) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	return errMockFail
}

func (m *MockStoreFail) SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error) {
	return nil, errors.New("mock store search failed")
}

func (m *MockStoreFail) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	return nil, errors.New("mock store search failed")
}

func (m *MockStoreFail) SearchHashtags(ctx context.Context, query string, limit int) ([]models.Hashtag, error) {
	return nil, errors.New("mock store search failed")
}
