package models

import (
	"time"
)

// Tag colour palette
const (
	ColorBlue   = "#0076FF"
	ColorOrange = "#FFCE26"
	ColorViolet = "#9922C8"
)

// TagColors lists the allowed Tag.Color values
var TagColors = []string{ColorBlue, ColorOrange, ColorViolet}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null" json:"color"`
	Slug  string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
}

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"size:255;not null" json:"image"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`

	Author      User                 `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Ingredients []AmountOfIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Tags        []RecipeTag          `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"tags"`
}

// AmountOfIngredient links a recipe to an ingredient with its quantity.
// A recipe holds at most one row per ingredient.
type AmountOfIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_ingredient_in_recipe" json:"recipe_id"`
	IngredientID uint `gorm:"not null;index;uniqueIndex:idx_ingredient_in_recipe" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient"`
}

func (AmountOfIngredient) TableName() string {
	return "amount_of_ingredients"
}

type RecipeTag struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_tag_in_recipe" json:"recipe_id"`
	TagID    uint `gorm:"not null;index;uniqueIndex:idx_tag_in_recipe" json:"tag_id"`

	Tag Tag `gorm:"constraint:OnDelete:CASCADE" json:"tag"`
}

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`

	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`

	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&AmountOfIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCart{},
	}
}
