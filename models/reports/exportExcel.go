package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/xuri/excelize/v2"
)

var menuCostHeadings = []string{
	"MenuName", "Category", "Subcategory", "LineCount",
	"SellingPrice", "DiscountPrice", "TotalCost", "CostRate", "Margin",
}

// WriteMenuCostExcel streams the menu cost report as an xlsx workbook.
func WriteMenuCostExcel(ctx context.Context, shopId *int, w io.Writer) error {

	data, err := GetMenuCostReport(ctx, shopId)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range menuCostHeadings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.MenuName)
		f.SetCellValue(sheetName, "B"+row, utils.DereferencePtr(d.CategoryName))
		f.SetCellValue(sheetName, "C"+row, utils.DereferencePtr(d.SubcategoryName))
		f.SetCellValue(sheetName, "D"+row, d.LineCount)
		// 2-decimal rounding happens only here, at the report boundary.
		f.SetCellValue(sheetName, "E"+row, d.SellingPrice.Round(2).InexactFloat64())
		f.SetCellValue(sheetName, "F"+row, d.DiscountPrice.InexactFloat64())
		f.SetCellValue(sheetName, "G"+row, d.TotalCost.Round(2).InexactFloat64())
		f.SetCellValue(sheetName, "H"+row, d.CostRate.Round(2).InexactFloat64())
		f.SetCellValue(sheetName, "I"+row, d.Margin.Round(2).InexactFloat64())
	}

	return f.Write(w)
}
