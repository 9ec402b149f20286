package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
)

// ExpenseService manages categories, expenses and their attachments.
type ExpenseService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*models.Category, error)
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	Create(ctx context.Context, in models.ExpenseCreate) (*models.Expense, error)
	Update(ctx context.Context, id string, in models.ExpenseUpdate) (*models.Expense, error)
	Delete(ctx context.Context, id string) error
	UploadAttachment(ctx context.Context, id, filename string, r io.Reader) (*models.Attachment, error)
}

type expenseService struct {
	gw client.Caller
}

func NewExpenseService(gw client.Caller) ExpenseService {
	return &expenseService{gw: gw}
}

func (s *expenseService) Categories(ctx context.Context) ([]models.Category, error) {
	return client.Do[[]models.Category](ctx, s.gw, "/api/categories", client.CallOptions{})
}

// CreateCategory sends name and color as query parameters, which is what the
// backend expects for this endpoint.
func (s *expenseService) CreateCategory(ctx context.Context, name, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, client.ValidationError("name is required")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("color", color)

	c, err := client.Do[models.Category](ctx, s.gw, "/api/categories", client.CallOptions{Method: http.MethodPost, Query: q})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *expenseService) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	if err := client.CheckInput(filter); err != nil {
		return nil, err
	}
	if !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateTo.Before(filter.DateFrom) {
		return nil, client.ValidationError("date_to must not be before date_from")
	}
	return client.Do[[]models.Expense](ctx, s.gw, "/api/expenses", client.CallOptions{Query: filter.Query()})
}

func (s *expenseService) Create(ctx context.Context, in models.ExpenseCreate) (*models.Expense, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := client.CheckInput(in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, client.ValidationError("date is required")
	}

	e, err := client.Do[models.Expense](ctx, s.gw, "/api/expenses", client.CallOptions{Method: http.MethodPost, Body: in})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *expenseService) Update(ctx context.Context, id string, in models.ExpenseUpdate) (*models.Expense, error) {
	if strings.TrimSpace(id) == "" {
		return nil, client.ValidationError("id is required")
	}
	if in.Empty() {
		return nil, client.ValidationError("nothing to update")
	}
	if err := client.CheckInput(in); err != nil {
		return nil, err
	}

	e, err := client.Do[models.Expense](ctx, s.gw, expensePath(id), client.CallOptions{Method: http.MethodPut, Body: in})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *expenseService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return client.ValidationError("id is required")
	}
	_, err := s.gw.Call(ctx, expensePath(id), client.CallOptions{Method: http.MethodDelete})
	return err
}

// UploadAttachment sends r as the multipart field "file".
func (s *expenseService) UploadAttachment(ctx context.Context, id, filename string, r io.Reader) (*models.Attachment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, client.ValidationError("id is required")
	}
	if r == nil {
		return nil, client.ValidationError("file is required")
	}

	body, contentType, err := multipartFile(filename, r)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	a, err := client.Do[models.Attachment](ctx, s.gw, expensePath(id)+"/attachment", client.CallOptions{
		Method:  http.MethodPost,
		Body:    body,
		Headers: map[string]string{"Content-Type": contentType},
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func expensePath(id string) string {
	return "/api/expenses/" + url.PathEscape(id)
}

func multipartFile(filename string, r io.Reader) (*bytes.Buffer, string, error) {
	name := filepath.Base(filename)
	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", ctype)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
