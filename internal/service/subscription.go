package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID. recipesLimit > 0 caps the recipes
// embedded in the returned view.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.Subscription, error) {
	db := s.db.WithContext(ctx)

	author, err := s.author(db, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, newConflict("you cannot subscribe to yourself")
	}

	var count int64
	if err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, newConflict("you are already subscribed to this author")
	}

	if err := db.Create(&models.Subscription{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newConflict("you are already subscribed to this author")
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	metrics.RecordRelationChange("subscription", true)
	logging.Debug().Uint("user_id", userID).Uint("author_id", authorID).Msg("subscribed")
	return s.view(db, *author, recipesLimit)
}

// Unsubscribe removes the subscription; an absent one is a conflict
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	db := s.db.WithContext(ctx)

	if _, err := s.author(db, authorID); err != nil {
		return err
	}

	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newConflict("you are not subscribed to this author")
	}

	metrics.RecordRelationChange("subscription", false)
	logging.Debug().Uint("user_id", userID).Uint("author_id", authorID).Msg("unsubscribed")
	return nil
}

// ListSubscriptions returns the authors userID follows, in subscription order
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uint, recipesLimit int) ([]types.Subscription, error) {
	db := s.db.WithContext(ctx)

	var subs []models.Subscription
	if err := db.Preload("Author").Where("user_id = ?", userID).Order("id").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out := make([]types.Subscription, 0, len(subs))
	for _, sub := range subs {
		view, err := s.view(db, sub.Author, recipesLimit)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (s *SubscriptionService) author(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// view builds the subscription representation seen by a subscriber
func (s *SubscriptionService) view(db *gorm.DB, author models.User, recipesLimit int) (*types.Subscription, error) {
	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := db.Where("author_id = ?", author.ID).Order("id")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}

	short := make([]types.ShortRecipe, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, toShortRecipe(r))
	}
	return &types.Subscription{
		User:         toUser(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
