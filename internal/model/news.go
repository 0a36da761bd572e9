package model

import "time"

// NewsCategories seed the admin news form.
var NewsCategories = []string{"Technology", "Business", "Innovation", "Startup", "Research", "AI Model"}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Date        time.Time `json:"date"`
}
