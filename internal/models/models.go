package models

import "time"

type User struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username   string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email      string    `json:"-" gorm:"size:254"`
	FirstName  string    `json:"first_name" gorm:"size:150"`
	LastName   string    `json:"last_name" gorm:"size:150"`
	Bio        string    `json:"bio" gorm:"size:500"`
	Location   string    `json:"location" gorm:"size:100"`
	Website    string    `json:"website" gorm:"size:200"`
	BirthDate  *Date     `json:"birth_date,omitempty" gorm:"type:date"`
	Avatar     string    `json:"-" gorm:"size:255"` // opaque media reference
	CoverPhoto string    `json:"-" gorm:"size:255"` // opaque media reference
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

// FullName returns "first last", or an empty string when neither is set.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// ProfileUpdate carries editable profile fields; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Bio        *string `json:"bio"`
	Location   *string `json:"location"`
	Website    *string `json:"website"`
	BirthDate  *Date   `json:"birth_date"`
	Avatar     *string `json:"avatar"`
	CoverPhoto *string `json:"cover_photo"`
}

type Post struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     string    `json:"image,omitempty" gorm:"size:255"`
	ReplyToID *string   `json:"reply_to,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"-"`

	// Derived live from relation cardinality; never persisted.
	PostCounts `gorm:"-"`
}

// PostCounts holds relation cardinalities for a post.
type PostCounts struct {
	Likes    int64 `json:"likes_count" gorm:"-"`
	Retweets int64 `json:"retweets_count" gorm:"-"`
	Replies  int64 `json:"replies_count" gorm:"-"`
}

type Hashtag struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`

	PostsCount int64 `json:"posts_count" gorm:"-"`
}

// HashtagMaxLen is the longest hashtag name that is stored.
const HashtagMaxLen = 100

// --- Association rows ---

// Follow is a directed edge: FollowerID follows FolloweeID.
type Follow struct {
	FollowerID string    `gorm:"type:varchar(36);primaryKey"`
	FolloweeID string    `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt  time.Time
}

type PostLike struct {
	PostID    string `gorm:"type:varchar(36);primaryKey"`
	UserID    string `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt time.Time
}

type PostRetweet struct {
	PostID    string `gorm:"type:varchar(36);primaryKey"`
	UserID    string `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt time.Time
}

type HashtagPost struct {
	HashtagID string `gorm:"type:varchar(36);primaryKey"`
	PostID    string `gorm:"type:varchar(36);primaryKey;index"`
}

// Reaction selects one of the per-post user sets.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionRetweet Reaction = "retweet"
)

// --- Notifications ---

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationRetweet NotificationType = "retweet"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationReply   NotificationType = "reply"
)

// NotificationType returns the notification emitted when the reaction is turned on.
func (r Reaction) NotificationType() NotificationType {
	if r == ReactionRetweet {
		return NotificationRetweet
	}
	return NotificationLike
}

type Notification struct {
	ID          string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	RecipientID string           `json:"recipient_id" gorm:"type:varchar(36);not null;index"`
	SenderID    string           `json:"sender_id" gorm:"type:varchar(36);not null"`
	Sender      *User            `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Type        NotificationType `json:"type" gorm:"size:20;not null"`
	PostID      *string          `json:"post_id,omitempty" gorm:"type:varchar(36)"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false"`
	CreatedAt   time.Time        `json:"created_at"`
}

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{}, &Post{}, &Hashtag{}, &HashtagPost{},
		&Follow{}, &PostLike{}, &PostRetweet{}, &Notification{},
	}
}
