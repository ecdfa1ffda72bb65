package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID  uint64    `json:"productId" gorm:"not null;index"`
	Product    *Product  `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UserID     uint64    `json:"userId" gorm:"not null;index"`
	Username   string    `json:"username" gorm:"size:150;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	ReviewText string    `json:"reviewText" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RatingSummary is derived from the current reviews of one product.
type RatingSummary struct {
	Average float64
	Count   int
}

// Summarize returns the arithmetic mean of the ratings, 0 for no reviews.
func Summarize(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return RatingSummary{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}
