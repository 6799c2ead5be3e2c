package objects

import (
	"time"
)

// Article corresponds to the articles table.
// Text fields are written once by ingestion; Image is attached later by the
// media sweep, which locates the row by URL. URL uniqueness is not enforced
// at the schema level.
type Article struct {
	// ID primary key
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Title string `gorm:"type:varchar(200);not null" json:"title"`

	// AI abstractive summary; empty until summarization ran
	Summary string `gorm:"type:text" json:"summary"`

	// Raw content from the upstream payload
	Content string `gorm:"type:text" json:"content"`

	// Source URL; also the lookup key for image attachment
	URL string `gorm:"type:varchar(500);index" json:"url"`

	// Rights holder / source name
	Source string `gorm:"type:varchar(200)" json:"source"`

	PublishedAt time.Time `gorm:"index" json:"published_at"`

	Category string `gorm:"type:varchar(100);not null" json:"category"`

	// The query string that produced this article
	QueryParam string `gorm:"type:text" json:"query_param"`

	Language string `gorm:"type:varchar(20);not null" json:"language"`
	Country  string `gorm:"type:varchar(50)" json:"country"`

	// Ingestion time
	CreatedAt time.Time `gorm:"autoCreateTime;type:datetime" json:"created_at"`

	// Producer-assigned authority rank, lower is better; nullable
	Rank *int `gorm:"index" json:"rank"`

	// Storage URL of the generated illustration; empty until attached
	Image string `gorm:"type:text" json:"image"`
}

// TableName overrides the table name
func (Article) TableName() string {
	return "articles"
}

// UserHistory corresponds to the user_histories table.
type UserHistory struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"type:varchar(200);not null" json:"user_id"`
	ArticleID uint64 `gorm:"index" json:"article_id"`

	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

func (UserHistory) TableName() string {
	return "user_histories"
}
