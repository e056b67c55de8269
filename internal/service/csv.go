package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/labstock/labstock/internal/model"
)

// Export is a CSV attachment ready to serve.
type Export struct {
	Filename string
	Data     []byte
}

// ExportCategoryCSV renders all rows of a category as CSV. The header row
// matches the kind's column order exactly.
func (s *InventoryService) ExportCategoryCSV(ctx context.Context, category string) (Export, error) {
	kind, stock, antibody, err := s.store.Items(ctx, category)
	if err != nil {
		return Export{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(kind.Columns()); err != nil {
		return Export{}, fmt.Errorf("write header: %w", err)
	}

	switch kind {
	case model.KindStock:
		for _, row := range stock {
			record := []string{
				row.ID,
				row.Item,
				row.Notes,
				formatFloat(row.Quantity),
				row.ModifiedAt.Format(model.ModifiedAtLayout),
				row.ModifiedBy,
			}
			if err := w.Write(record); err != nil {
				return Export{}, fmt.Errorf("write row: %w", err)
			}
		}
	case model.KindAntibody:
		for _, row := range antibody {
			record := []string{
				strconv.FormatInt(row.ID, 10),
				row.Code,
				row.Name,
				row.Target,
				row.Host,
				row.Conjugate,
				row.Brand,
				formatFloat(row.Aliquots),
				formatFloat(row.Vials),
				row.ModifiedAt.Format(model.ModifiedAtLayout),
				row.ModifiedBy,
			}
			if err := w.Write(record); err != nil {
				return Export{}, fmt.Errorf("write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, fmt.Errorf("flush csv: %w", err)
	}
	return Export{Filename: category + ".csv", Data: buf.Bytes()}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
