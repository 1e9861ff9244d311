package model

// Category is a named grouping of products.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRequest represents the request payload for creating a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}
