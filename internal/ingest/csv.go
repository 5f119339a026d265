package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// DemandRow is one item's monthly demand history as read from a CSV export.
type DemandRow struct {
	ItemCode     string
	ItemName     string
	Series       domain.MonthlySeries
	LeadTimeDays float64
}

// ReadItemMetrics reads classifier inputs from a CSV file. Rows missing an
// item code or with unparseable numeric fields are skipped with a warning.
func ReadItemMetrics(path string) ([]domain.ItemMetrics, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := columnIndex(header)

	required := []string{"item_code", "annual_sales_qty", "current_stock"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in %s", name, path)
		}
	}

	var items []domain.ItemMetrics
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		line++

		code := strings.TrimSpace(field(record, cols, "item_code"))
		if code == "" {
			log.Warn().Int("line", line).Str("file", path).Msg("skipping row without item code")
			continue
		}

		items = append(items, domain.ItemMetrics{
			ItemCode:          code,
			ItemName:          strings.TrimSpace(field(record, cols, "item_name")),
			UOM:               strings.TrimSpace(field(record, cols, "uom")),
			AnnualSalesQty:    parseFloat(record, cols, "annual_sales_qty"),
			AnnualSalesValue:  parseFloat(record, cols, "annual_sales_value"),
			CurrentStock:      parseFloat(record, cols, "current_stock"),
			StockValue:        parseFloat(record, cols, "stock_value"),
			ItemAgeDays:       parseFloat(record, cols, "item_age_days"),
			DaysSinceLastSale: parseFloat(record, cols, "days_since_last_sale"),
			CreatedDate:       strings.TrimSpace(field(record, cols, "created_date")),
			SalesVelocity:     parseFloat(record, cols, "sales_velocity"),
			TurnoverRatio:     parseFloat(record, cols, "turnover_ratio"),
			ConsistencyScore:  parseFloat(record, cols, "consistency_score"),
			DemandVariability: parseFloat(record, cols, "demand_variability"),
		})
	}

	log.Info().Int("items", len(items)).Str("file", path).Msg("loaded item metrics")
	return items, nil
}

// ReadMonthlyDemand reads 12-month demand histories from a CSV file with
// columns item_code, item_name, lead_time_days and month_1 .. month_12
// (month_1 is the oldest month).
func ReadMonthlyDemand(path string) ([]DemandRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := columnIndex(header)

	if _, ok := cols["item_code"]; !ok {
		return nil, fmt.Errorf("missing required column %q in %s", "item_code", path)
	}
	for m := 1; m <= domain.MonthsPerYear; m++ {
		name := fmt.Sprintf("month_%d", m)
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in %s", name, path)
		}
	}

	var rows []DemandRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		line++

		code := strings.TrimSpace(field(record, cols, "item_code"))
		if code == "" {
			log.Warn().Int("line", line).Str("file", path).Msg("skipping row without item code")
			continue
		}

		row := DemandRow{
			ItemCode:     code,
			ItemName:     strings.TrimSpace(field(record, cols, "item_name")),
			LeadTimeDays: parseFloat(record, cols, "lead_time_days"),
		}
		for m := 0; m < domain.MonthsPerYear; m++ {
			row.Series[m] = parseFloat(record, cols, fmt.Sprintf("month_%d", m+1))
		}
		rows = append(rows, row)
	}

	log.Info().Int("items", len(rows)).Str("file", path).Msg("loaded demand histories")
	return rows, nil
}

// ReadNewItemMetrics reads health scoring inputs from a CSV file.
func ReadNewItemMetrics(path string) ([]domain.NewItemMetrics, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := columnIndex(header)

	if _, ok := cols["item_code"]; !ok {
		return nil, fmt.Errorf("missing required column %q in %s", "item_code", path)
	}

	var items []domain.NewItemMetrics
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		line++

		code := strings.TrimSpace(field(record, cols, "item_code"))
		if code == "" {
			log.Warn().Int("line", line).Str("file", path).Msg("skipping row without item code")
			continue
		}

		items = append(items, domain.NewItemMetrics{
			ItemCode:        code,
			ItemName:        strings.TrimSpace(field(record, cols, "item_name")),
			ItemAgeDays:     parseFloat(record, cols, "item_age_days"),
			ActualSalesQty:  parseFloat(record, cols, "actual_sales_qty"),
			TargetSalesQty:  parseFloat(record, cols, "target_sales_qty"),
			UniqueCustomers: parseInt(record, cols, "unique_customers"),
			RepeatCustomers: parseInt(record, cols, "repeat_customers"),
			CurrentStock:    parseFloat(record, cols, "current_stock"),
			StockValue:      parseFloat(record, cols, "stock_value"),
			AvgMonthlySales: parseFloat(record, cols, "avg_monthly_sales"),
			SalesLastWeek:   parseFloat(record, cols, "sales_last_week"),
			SalesPriorWeek:  parseFloat(record, cols, "sales_prior_week"),
		})
	}

	log.Info().Int("items", len(items)).Str("file", path).Msg("loaded new item metrics")
	return items, nil
}

// columnIndex maps normalized header names to their positions. Headers like
// "Item Code", "item_code" and "ITEM-CODE" all resolve to "item_code".
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[normalizeColumn(col)] = i
	}
	return cols
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "")
	return name
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseFloat(record []string, cols map[string]int, name string) float64 {
	raw := strings.TrimSpace(field(record, cols, name))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(record []string, cols map[string]int, name string) int {
	return int(parseFloat(record, cols, name))
}
