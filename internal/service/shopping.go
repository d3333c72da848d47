package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Shopping list export formats
const (
	FormatText = "txt"
	FormatPDF  = "pdf"
)

// ShoppingList is a rendered export ready to be sent as an attachment
type ShoppingList struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ShoppingService struct {
	db *gorm.DB
}

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// Items sums ingredient amounts over every recipe in the user's cart. Rows
// are grouped by name and unit and sorted by name, then unit.
func (s *ShoppingService) Items(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	var items []types.ShoppingItem
	err := s.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(amount_of_ingredients.amount) AS total").
		Joins("JOIN amount_of_ingredients ON amount_of_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = amount_of_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return items, nil
}

// Export aggregates the cart and renders it in the requested format
func (s *ShoppingService) Export(ctx context.Context, userID uint, format string) (*ShoppingList, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatPDF {
		return nil, newValidationError("format", "must be one of txt, pdf")
	}

	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &ShoppingList{}
	switch format {
	case FormatPDF:
		body, err := RenderShoppingListPDF(items)
		if err != nil {
			return nil, err
		}
		list.Filename = "shopping_cart.pdf"
		list.ContentType = "application/pdf"
		list.Body = body
	default:
		list.Filename = "shopping_cart.txt"
		list.ContentType = "text/plain; charset=utf-8"
		list.Body = []byte(RenderShoppingList(items))
	}

	metrics.RecordShoppingListExport(format)
	return list, nil
}

func formatShoppingLine(item types.ShoppingItem) string {
	return fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Total)
}

// RenderShoppingList renders one "name (unit) - total" line per item
func RenderShoppingList(items []types.ShoppingItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(formatShoppingLine(item))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderShoppingListPDF renders the same lines as a one column A4 document
func RenderShoppingListPDF(items []types.ShoppingItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Shopping list", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Shopping list", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	for _, item := range items {
		pdf.CellFormat(0, 8, tr(formatShoppingLine(item)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list pdf: %w", err)
	}
	return buf.Bytes(), nil
}
