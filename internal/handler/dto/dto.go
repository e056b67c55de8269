// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/labstock/labstock/internal/model"
)

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// CategoryListResponse represents the category registry.
type CategoryListResponse struct {
	Data []CategoryResponse `json:"data"`
}

// InsertItemRequest carries the raw fields of an item insert. Numeric fields
// are strings on the wire; empty means zero.
type InsertItemRequest struct {
	// stock fields
	Item     string `json:"item,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Quantity string `json:"quantity,omitempty"`

	// antibody fields
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	Target    string `json:"target,omitempty"`
	Host      string `json:"host,omitempty"`
	Conjugate string `json:"conjugate,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Aliquots  string `json:"aliquots,omitempty"`
	Vials     string `json:"vials,omitempty"`

	// Actor stamped as modified_by; defaults to "unknown".
	Actor string `json:"actor,omitempty"`
}

// UpdateItemRequest sets one column of one row.
type UpdateItemRequest struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// StockItemResponse represents a stock row in API responses.
type StockItemResponse struct {
	ID         string  `json:"id"`
	Item       string  `json:"item"`
	Notes      string  `json:"notes"`
	Quantity   float64 `json:"quantity"`
	ModifiedAt string  `json:"modified_at"`
	ModifiedBy string  `json:"modified_by"`
}

// AntibodyItemResponse represents an antibody row in API responses.
type AntibodyItemResponse struct {
	ID         int64   `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Target     string  `json:"target"`
	Host       string  `json:"host"`
	Conjugate  string  `json:"conjugate"`
	Brand      string  `json:"brand"`
	Aliquots   float64 `json:"aliquots"`
	Vials      float64 `json:"vials"`
	ModifiedAt string  `json:"modified_at"`
	ModifiedBy string  `json:"modified_by"`
}

// ItemListResponse carries a category's rows. Exactly one of Stock or
// Antibody is populated, matching Kind.
type ItemListResponse struct {
	Kind     string                 `json:"kind"`
	Stock    []StockItemResponse    `json:"stock,omitempty"`
	Antibody []AntibodyItemResponse `json:"antibody,omitempty"`
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordRequest overwrites a password given the proof phrase.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
	ProofPhrase string `json:"proof_phrase"`
}

// UserResponse represents an account in API responses. The password hash
// never leaves the server.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ClockRequest represents a clock-in/clock-out event.
type ClockRequest struct {
	User     string `json:"user"`
	Date     string `json:"date"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out,omitempty"`
}

// TimeLogEntryResponse represents a time-log row in API responses.
type TimeLogEntryResponse struct {
	ID       int64  `json:"id"`
	User     string `json:"user"`
	Date     string `json:"date"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out"`
}

// TimeLogListResponse represents a user's time-log entries.
type TimeLogListResponse struct {
	Data []TimeLogEntryResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToCategoryResponse converts a Category model to CategoryResponse DTO.
func ToCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Kind: string(c.Kind)}
}

// ToCategoryListResponse converts categories to a list DTO.
func ToCategoryListResponse(categories []model.Category) CategoryListResponse {
	data := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		data[i] = ToCategoryResponse(c)
	}
	return CategoryListResponse{Data: data}
}

// ToStockItemResponse converts a StockItem model to its DTO.
func ToStockItemResponse(item model.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:         item.ID,
		Item:       item.Item,
		Notes:      item.Notes,
		Quantity:   item.Quantity,
		ModifiedAt: item.ModifiedAt.Format(model.ModifiedAtLayout),
		ModifiedBy: item.ModifiedBy,
	}
}

// ToAntibodyItemResponse converts an AntibodyItem model to its DTO.
func ToAntibodyItemResponse(item model.AntibodyItem) AntibodyItemResponse {
	return AntibodyItemResponse{
		ID:         item.ID,
		Code:       item.Code,
		Name:       item.Name,
		Target:     item.Target,
		Host:       item.Host,
		Conjugate:  item.Conjugate,
		Brand:      item.Brand,
		Aliquots:   item.Aliquots,
		Vials:      item.Vials,
		ModifiedAt: item.ModifiedAt.Format(model.ModifiedAtLayout),
		ModifiedBy: item.ModifiedBy,
	}
}

// ToItemListResponse converts a kind plus rows to the list DTO.
func ToItemListResponse(kind model.Kind, stock []model.StockItem, antibody []model.AntibodyItem) ItemListResponse {
	resp := ItemListResponse{Kind: string(kind)}
	if len(stock) > 0 {
		resp.Stock = make([]StockItemResponse, len(stock))
		for i, item := range stock {
			resp.Stock[i] = ToStockItemResponse(item)
		}
	}
	if len(antibody) > 0 {
		resp.Antibody = make([]AntibodyItemResponse, len(antibody))
		for i, item := range antibody {
			resp.Antibody[i] = ToAntibodyItemResponse(item)
		}
	}
	return resp
}

// ToUserResponse converts a UserAccount model to UserResponse DTO.
func ToUserResponse(u model.UserAccount) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// ToTimeLogListResponse converts time-log entries to the list DTO.
func ToTimeLogListResponse(entries []model.TimeLogEntry) TimeLogListResponse {
	data := make([]TimeLogEntryResponse, len(entries))
	for i, e := range entries {
		data[i] = TimeLogEntryResponse{
			ID:       e.ID,
			User:     e.User,
			Date:     e.Date,
			ClockIn:  e.ClockIn,
			ClockOut: e.ClockOut,
		}
	}
	return TimeLogListResponse{Data: data}
}
