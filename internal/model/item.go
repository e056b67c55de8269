package model

import "time"

// ModifiedAtLayout is the timestamp format used in CSV exports and API
// responses for the modified_at stamp.
const ModifiedAtLayout = "2006-01-02 15:04:05"

// StockItem is one row of a stock-kind category.
type StockItem struct {
	ID         string    `json:"id"`
	Item       string    `json:"item"`
	Notes      string    `json:"notes"`
	Quantity   float64   `json:"quantity"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by"`
}

// AntibodyItem is one row of an antibody-kind category.
// IDs auto-increment per category.
type AntibodyItem struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Target     string    `json:"target"`
	Host       string    `json:"host"`
	Conjugate  string    `json:"conjugate"`
	Brand      string    `json:"brand"`
	Aliquots   float64   `json:"aliquots"`
	Vials      float64   `json:"vials"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by"`
}

// CSV column orders. The legacy column names are kept verbatim so exports
// stay drop-in compatible with spreadsheets built against the old system.
var (
	StockColumns = []string{
		"id", "item", "infos", "quantidade", "data_modificacao", "nome_usuario",
	}
	AntibodyColumns = []string{
		"id", "codigo", "nome", "alvo", "host", "conjugado", "marca",
		"aliquotas", "vials", "data_modificacao", "nome_usuario",
	}
)

// Columns returns the export column order for the kind.
func (k Kind) Columns() []string {
	if k == KindAntibody {
		return AntibodyColumns
	}
	return StockColumns
}
