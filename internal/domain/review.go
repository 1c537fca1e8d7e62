package domain

import "time"

// Review is a customer testimonial for a product. One per (user, product);
// created unapproved and invisible until moderated.
type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	ProductID  string    `json:"productId"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"isApproved"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
