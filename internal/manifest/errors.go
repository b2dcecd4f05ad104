package manifest

import "errors"

var (
	ErrInvalidRecipe    = errors.New("invalid recipe")
	ErrRecipeUnreadable = errors.New("recipe unreadable")
)
