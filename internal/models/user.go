package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SocialLinks maps a social platform name to a profile URL. Stored as a
// JSON text column so it round-trips through any SQL backend.
type SocialLinks map[string]string

func (s SocialLinks) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for SocialLinks", value)
	}
}

// User represents a registered account. Exactly one of Password or GoogleID
// is required for login: password accounts never need a Google identity and
// Google accounts never need a password.
type User struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string      `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email         string      `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password      string      `json:"-" gorm:"type:varchar(255)"`
	GoogleID      *string     `json:"-" gorm:"uniqueIndex;type:varchar(255)"`
	Bio           string      `json:"bio" gorm:"type:varchar(500)"`
	AvatarURL     string      `json:"avatarUrl"`
	SocialLinks   SocialLinks `json:"socialLinks" gorm:"type:text"`
	PlaylistCount int         `json:"playlistCount" gorm:"not null;default:0"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// SocialPlatforms are the accepted keys for User.SocialLinks.
var SocialPlatforms = map[string]bool{
	"instagram": true,
	"twitter":   true,
	"youtube":   true,
	"spotify":   true,
	"website":   true,
}

// UserFollow is a directed follower edge. The schema ships with the product
// but the follow endpoints are currently disabled.
type UserFollow struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"followerId" gorm:"type:varchar(36);not null;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"followingId" gorm:"type:varchar(36);not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
