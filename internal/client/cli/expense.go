package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
)

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.expenses.Categories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No categories yet, use addcategory.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Color)
	}
	return tw.Flush()
}

func (a *App) AddCategory(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter category name", a.out)
	if err != nil {
		return err
	}
	color, err := getSimpleText(a.reader, "Enter color (empty for "+models.DefaultCategoryColor+")", a.out)
	if err != nil {
		return err
	}

	c, err := a.expenses.CreateCategory(ctx, name, color)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %s created (%s)\n", c.Name, c.ID)
	return nil
}

// List prompts for optional filters and prints matching expenses.
func (a *App) List(ctx context.Context) error {
	category, err := getSimpleText(a.reader, "Category id (empty for all)", a.out)
	if err != nil {
		return err
	}
	from, err := getSimpleText(a.reader, "From date YYYY-MM-DD (empty for none)", a.out)
	if err != nil {
		return err
	}
	to, err := getSimpleText(a.reader, "To date YYYY-MM-DD (empty for none)", a.out)
	if err != nil {
		return err
	}

	filter := models.ExpenseFilter{CategoryID: category}
	if filter.DateFrom, err = optionalDate(from); err != nil {
		return err
	}
	dateTo, err := parseDate(to, time.Time{})
	if err != nil {
		return err
	}
	filter.DateTo = endOfDay(dateTo).Time

	list, err := a.expenses.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No expenses found.")
		return nil
	}

	var total float64
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION\tFILE")
	for _, e := range list {
		total += e.Amount
		file := ""
		if e.HasAttachment() {
			file = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(time.DateOnly), e.Amount, e.CategoryName, e.Description, file)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d expense(s), total %.2f\n", len(list), total)
	return nil
}

// Add records a new expense. An empty date means today.
func (a *App) Add(ctx context.Context) error {
	amount, err := getSimpleText(a.reader, "Enter amount", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Enter category id", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "Enter date YYYY-MM-DD (empty for today)", a.out)
	if err != nil {
		return err
	}

	in := models.ExpenseCreate{CategoryID: category, Description: description}
	if in.Amount, err = parseAmount(amount); err != nil {
		return err
	}
	if in.Date, err = parseDate(date, a.now()); err != nil {
		return err
	}

	e, err := a.expenses.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense %s added\n", e.ID)
	return nil
}

// Edit changes the fields the user fills in and keeps the rest.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter expense id", a.out)
	if err != nil {
		return err
	}
	amount, err := getSimpleText(a.reader, "New amount (empty to keep)", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "New category id (empty to keep)", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (empty to keep)", a.out)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "New date YYYY-MM-DD (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var in models.ExpenseUpdate
	if amount != "" {
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		in.Amount = &v
	}
	if category != "" {
		in.CategoryID = &category
	}
	if description != "" {
		in.Description = &description
	}
	if date != "" {
		ts, err := parseDate(date, time.Time{})
		if err != nil {
			return err
		}
		in.Date = &ts
	}

	e, err := a.expenses.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense %s updated\n", e.ID)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter expense id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.expenses.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Expense deleted.")
	return nil
}

// Attach uploads a local file as the expense receipt.
func (a *App) Attach(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter expense id", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Enter file path", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return client.ValidationError("file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	if _, err := a.expenses.UploadAttachment(ctx, id, path, f); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Attachment uploaded.")
	return nil
}

func optionalDate(s string) (time.Time, error) {
	ts, err := parseDate(s, time.Time{})
	return ts.Time, err
}
