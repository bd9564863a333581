// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pricescout/pricescout/internal/scraper"
)

const resultsSheet = "Results"

// WriteListingsXLSX exports a search's result set to an Excel workbook,
// one row per listing in result order.
func WriteListingsXLSX(path string, listings []scraper.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []interface{}{"Name", "Price", "Rating", "Source", "Product URL", "Image URL"}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, l := range listings {
		var rating interface{}
		if l.Rating != nil {
			rating = *l.Rating
		}
		row := []interface{}{l.Name, l.Price, rating, string(l.Source), l.ProductURL, l.ImageURL}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
