package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// ExportCatalogToExcel writes the full article catalog plus audience counts
// into reports/<filename>.xlsx and returns the file path.
func (s *PostgresStorage) ExportCatalogToExcel(ctx context.Context, filename string) (string, error) {
	const query = `
        SELECT article_id, title, user_role, content_path
        FROM articles
        ORDER BY user_role, article_id
    `
	var articles []Article
	if err := s.db.SelectContext(ctx, &articles, query); err != nil {
		return "", fmt.Errorf("failed to fetch articles: %w", err)
	}

	stats, err := s.CatalogStats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch catalog stats: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Catalog")
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"ID", "Title", "Audience", "Content"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Catalog", cell, header)
	}

	for row, article := range articles {
		data := []interface{}{
			article.ID,
			article.Title,
			string(article.Role),
			article.ContentPath,
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Catalog", cell, value)
		}
	}

	if _, err := f.NewSheet("Audience"); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	f.SetCellValue("Audience", "A1", "Total users")
	f.SetCellValue("Audience", "B1", stats.TotalUsers)
	f.SetCellValue("Audience", "A2", "Regular")
	f.SetCellValue("Audience", "B2", stats.RegularUsers)
	f.SetCellValue("Audience", "A3", "Entrepreneur")
	f.SetCellValue("Audience", "B3", stats.EntrepreneurUsers)
	f.SetCellValue("Audience", "A4", "No role yet")
	f.SetCellValue("Audience", "B4", stats.UnsetUsers)
	f.SetCellValue("Audience", "A5", "Total articles")
	f.SetCellValue("Audience", "B5", stats.TotalArticles)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle("Catalog", "A1", "D1", style)

	f.SetActiveSheet(index)

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/%s.xlsx", filename)
	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}
