package testhelpers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the plain password of every fixture user
const TestPassword = "testpass123"

// CreateTestUser inserts a user named username with TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, slug, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Color: color}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// CreateTestRecipe inserts a recipe with the given ingredient amounts and tags
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, amounts map[*models.Ingredient]int, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		Text:        "Mix and cook.",
		Image:       "/media/recipes/images/" + name + ".jpg",
		CookingTime: 10,
		AuthorID:    author.ID,
	}
	if err := db.Omit("Author", "Ingredients", "Tags").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for ingredient, amount := range amounts {
		row := &models.AmountOfIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			t.Fatalf("failed to add ingredient: %v", err)
		}
	}
	for _, tag := range tags {
		row := &models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}
		if err := db.Omit("Tag").Create(row).Error; err != nil {
			t.Fatalf("failed to add tag: %v", err)
		}
	}
	return recipe
}

// TestImageDataURI returns a small PNG encoded as a base64 data URI
func TestImageDataURI(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// MemoryImageStore keeps stored images in memory
type MemoryImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Objects: map[string][]byte{}}
}

func (s *MemoryImageStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	s.Objects[key] = data
	return "/media/" + key, nil
}

func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}
