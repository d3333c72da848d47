package types

// IngredientAmount is one ingredient line of a recipe submission
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,min=1"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uint             `json:"tags"`
	Image       string             `json:"image" binding:"required"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
}

// UpdateRecipeRequest represents the body of PUT/PATCH on a recipe. Nil
// fields keep their stored value; present slices replace the whole set.
type UpdateRecipeRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients" binding:"omitempty,min=1,dive"`
	Tags        *[]uint             `json:"tags"`
	Image       *string             `json:"image"`
	Name        *string             `json:"name" binding:"omitempty,max=200"`
	Text        *string             `json:"text"`
	CookingTime *int                `json:"cooking_time"`
}

// SignUpRequest represents the body of user registration
type SignUpRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

// TokenRequest represents the body of the token login endpoint
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=150"`
}

// SetPasswordRequest represents the body of the password change endpoint
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,max=150"`
	CurrentPassword string `json:"current_password" binding:"required,max=150"`
}

// RecipeFilter carries the optional list filters for recipes. Nil means
// the filter is not applied.
type RecipeFilter struct {
	Tags             []string
	AuthorID         *uint
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// AsUpdate turns a complete payload into an update that sets every field
func (r *CreateRecipeRequest) AsUpdate() UpdateRecipeRequest {
	ingredients := r.Ingredients
	tags := r.Tags
	if tags == nil {
		tags = []uint{}
	}
	image, name, text, cookingTime := r.Image, r.Name, r.Text, r.CookingTime
	return UpdateRecipeRequest{
		Ingredients: &ingredients,
		Tags:        &tags,
		Image:       &image,
		Name:        &name,
		Text:        &text,
		CookingTime: &cookingTime,
	}
}
