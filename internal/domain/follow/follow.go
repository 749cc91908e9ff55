package follow

import "time"

// Follow means UserID subscribed to recipes of AuthorID.
type Follow struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_follows_user_author"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_follows_user_author"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Follow) TableName() string {
	return "follows"
}
