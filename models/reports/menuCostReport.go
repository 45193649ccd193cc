package reports

import (
	"context"
	"errors"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

type MenuCostResponse struct {
	MenuId          int             `json:"MenuId"`
	MenuName        string          `json:"MenuName"`
	CategoryName    *string         `json:"CategoryName,omitempty"`
	SubcategoryName *string         `json:"SubcategoryName,omitempty"`
	LineCount       int             `json:"LineCount"`
	SellingPrice    decimal.Decimal `json:"SellingPrice"`
	TotalCost       decimal.Decimal `json:"TotalCost"`
	CostRate        decimal.Decimal `json:"CostRate"`
	Margin          decimal.Decimal `json:"Margin"`
	DiscountPrice   decimal.Decimal `gorm:"-" json:"DiscountPrice"`
}

// GetMenuCostReport aggregates every menu's cost position from the recipe
// lines (not the snapshots), so the report doubles as a consistency check.
func GetMenuCostReport(ctx context.Context, shopId *int) ([]*MenuCostResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	sqlT := `
SELECT
    m.id AS menu_id,
    m.name AS menu_name,
    categories.name AS category_name,
    subcategories.name AS subcategory_name,
    COALESCE(rl.line_count, 0) AS line_count,
    m.selling_price,
    COALESCE(rl.total_cost, 0) AS total_cost,
    CASE
        WHEN m.selling_price > 0 THEN COALESCE(rl.total_cost, 0) / m.selling_price * 100
        ELSE 0
    END AS cost_rate,
    m.selling_price - COALESCE(rl.total_cost, 0) AS margin
FROM
    menus m
        LEFT JOIN
    (SELECT
        menu_id,
            COUNT(id) AS line_count,
            SUM(calculated_cost) AS total_cost
    FROM
        recipe_lines
    GROUP BY menu_id) AS rl ON rl.menu_id = m.id
        LEFT JOIN
    categories ON categories.id = m.category_id
        LEFT JOIN
    subcategories ON subcategories.id = m.subcategory_id
WHERE
    m.business_id = @businessId
    {{- if .shopId }} AND m.shop_id = @shopId {{- end }}
ORDER BY cost_rate DESC;
`

	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"shopId": utils.DereferencePtr(shopId),
	})
	if err != nil {
		return nil, err
	}

	var records []*MenuCostResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"businessId": businessId,
		"shopId":     shopId,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	for _, r := range records {
		r.DiscountPrice = models.DiscountPrice(r.SellingPrice)
	}

	return records, nil
}
