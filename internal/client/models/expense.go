package models

import (
	"net/url"
	"strconv"
	"time"
)

const DefaultCategoryColor = "#6366f1"

type Category struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID string `json:"user_id"`
}

type Expense struct {
	ID            string    `json:"id" validate:"required"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Description   string    `json:"description"`
	Date          Timestamp `json:"date"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
}

// HasAttachment reports whether an attachment was uploaded for the expense.
func (e Expense) HasAttachment() bool {
	return e.AttachmentURL != nil && *e.AttachmentURL != ""
}

type ExpenseCreate struct {
	Amount      float64   `json:"amount" validate:"gt=0"`
	CategoryID  string    `json:"category_id" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        Timestamp `json:"date"`
}

// ExpenseUpdate is a partial update: nil fields are left untouched.
type ExpenseUpdate struct {
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	CategoryID  *string    `json:"category_id,omitempty" validate:"omitempty,min=1"`
	Description *string    `json:"description,omitempty"`
	Date        *Timestamp `json:"date,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ExpenseUpdate) Empty() bool {
	return u.Amount == nil && u.CategoryID == nil && u.Description == nil && u.Date == nil
}

// ExpenseFilter narrows the expense listing. Zero values are not sent.
type ExpenseFilter struct {
	Limit      int `validate:"gte=0"`
	Offset     int `validate:"gte=0"`
	CategoryID string
	DateFrom   time.Time
	DateTo     time.Time
}

// Query encodes the filter as URL query parameters.
func (f ExpenseFilter) Query() url.Values {
	q := url.Values{}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	if !f.DateFrom.IsZero() {
		q.Set("date_from", f.DateFrom.UTC().Format(time.RFC3339))
	}
	if !f.DateTo.IsZero() {
		q.Set("date_to", f.DateTo.UTC().Format(time.RFC3339))
	}
	return q
}

// Attachment is the reply to an attachment upload.
type Attachment struct {
	Message       string `json:"message"`
	AttachmentURL string `json:"attachment_url" validate:"required"`
}
