package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/embauco/internal/client/models"
)

const defaultChartFile = "chart.png"

// Stats prints the dashboard summary.
func (a *App) Stats(ctx context.Context) error {
	st, err := a.dashboard.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "This month: %.2f\n", st.TotalMonth)
	fmt.Fprintf(a.out, "Expenses recorded: %d\n", st.TotalExpenses)

	if len(st.CategoryTotals) > 0 {
		fmt.Fprintln(a.out, "\nBy category:")
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, name := range sortedKeys(st.CategoryTotals) {
			fmt.Fprintf(tw, "  %s\t%.2f\n", name, st.CategoryTotals[name])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(st.MonthlyTotals) > 0 {
		fmt.Fprintln(a.out, "\nBy month:")
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, m := range st.MonthlyTotals {
			fmt.Fprintf(tw, "  %s\t%.2f\n", m.Month, m.Total)
		}
		return tw.Flush()
	}
	return nil
}

// Chart asks the server to render a chart and saves the image locally.
func (a *App) Chart(ctx context.Context) error {
	kind, err := getSimpleText(a.reader, "Chart type (pie, bar, line)", a.out)
	if err != nil {
		return err
	}
	from, err := getSimpleText(a.reader, "From date YYYY-MM-DD", a.out)
	if err != nil {
		return err
	}
	to, err := getSimpleText(a.reader, "To date YYYY-MM-DD", a.out)
	if err != nil {
		return err
	}
	group, err := getSimpleText(a.reader, "Group by (category, month, day; empty for category)", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Save to (empty for "+defaultChartFile+")", a.out)
	if err != nil {
		return err
	}

	req := models.ChartRequest{
		ChartType: models.ChartType(strings.ToLower(kind)),
		GroupBy:   models.ChartGroup(strings.ToLower(group)),
	}
	if req.DateFrom, err = parseDate(from, a.now()); err != nil {
		return err
	}
	dateTo, err := parseDate(to, a.now())
	if err != nil {
		return err
	}
	req.DateTo = endOfDay(dateTo)
	if path == "" {
		path = defaultChartFile
	}

	res, err := a.charts.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := a.charts.SaveImage(res, path); err != nil {
		return err
	}

	for _, k := range sortedKeys(res.DataSummary) {
		fmt.Fprintf(a.out, "  %s: %.2f\n", k, res.DataSummary[k])
	}
	fmt.Fprintf(a.out, "Total %.2f, chart saved to %s\n", res.TotalAmount, path)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
