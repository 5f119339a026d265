// internal/loader/loader.go
package loader

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/hydroinv/backend-go/internal/ingest"
)

// Stats summarizes one load run.
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Loader bulk-loads CSV exports into the raw input tables the analytics
// models read from.
type Loader struct {
	db *sql.DB
}

func New(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// Open connects to postgres via the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// LoadItemMetrics reads classifier inputs from a CSV file and upserts them
// into item_metrics keyed by item_code.
func (l *Loader) LoadItemMetrics(ctx context.Context, filePath string) (Stats, error) {
	var stats Stats

	items, err := ingest.ReadItemMetrics(filePath)
	if err != nil {
		return stats, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO item_metrics (
            item_code, item_name, uom, annual_sales_qty, annual_sales_value,
            current_stock, stock_value, item_age_days, days_since_last_sale,
            created_date, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            uom = EXCLUDED.uom,
            annual_sales_qty = EXCLUDED.annual_sales_qty,
            annual_sales_value = EXCLUDED.annual_sales_value,
            current_stock = EXCLUDED.current_stock,
            stock_value = EXCLUDED.stock_value,
            item_age_days = EXCLUDED.item_age_days,
            days_since_last_sale = EXCLUDED.days_since_last_sale,
            created_date = EXCLUDED.created_date,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return stats, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			item.ItemCode, item.ItemName, item.UOM, item.AnnualSalesQty, item.AnnualSalesValue,
			item.CurrentStock, item.StockValue, item.ItemAgeDays, item.DaysSinceLastSale,
			item.CreatedDate,
		).Scan(&inserted)
		if err != nil {
			log.Error().Err(err).Str("item_code", item.ItemCode).Msg("failed to load item metrics row")
			stats.Errors++
			continue
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Str("file", filePath).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("errors", stats.Errors).
		Msg("item metrics loaded")
	return stats, nil
}

// LoadMonthlyDemand reads 12-month demand histories from a CSV file and
// upserts them into monthly_demand keyed by item_code.
func (l *Loader) LoadMonthlyDemand(ctx context.Context, filePath string) (Stats, error) {
	var stats Stats

	rows, err := ingest.ReadMonthlyDemand(filePath)
	if err != nil {
		return stats, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO monthly_demand (
            item_code, item_name, lead_time_days,
            month_1, month_2, month_3, month_4, month_5, month_6,
            month_7, month_8, month_9, month_10, month_11, month_12,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            lead_time_days = EXCLUDED.lead_time_days,
            month_1 = EXCLUDED.month_1, month_2 = EXCLUDED.month_2,
            month_3 = EXCLUDED.month_3, month_4 = EXCLUDED.month_4,
            month_5 = EXCLUDED.month_5, month_6 = EXCLUDED.month_6,
            month_7 = EXCLUDED.month_7, month_8 = EXCLUDED.month_8,
            month_9 = EXCLUDED.month_9, month_10 = EXCLUDED.month_10,
            month_11 = EXCLUDED.month_11, month_12 = EXCLUDED.month_12,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return stats, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		s := row.Series
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			row.ItemCode, row.ItemName, row.LeadTimeDays,
			s[0], s[1], s[2], s[3], s[4], s[5],
			s[6], s[7], s[8], s[9], s[10], s[11],
		).Scan(&inserted)
		if err != nil {
			log.Error().Err(err).Str("item_code", row.ItemCode).Msg("failed to load demand row")
			stats.Errors++
			continue
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Str("file", filePath).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("errors", stats.Errors).
		Msg("monthly demand loaded")
	return stats, nil
}

// LoadNewItemMetrics reads health scoring inputs from a CSV file and upserts
// them into new_item_metrics keyed by item_code.
func (l *Loader) LoadNewItemMetrics(ctx context.Context, filePath string) (Stats, error) {
	var stats Stats

	items, err := ingest.ReadNewItemMetrics(filePath)
	if err != nil {
		return stats, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO new_item_metrics (
            item_code, item_name, item_age_days, actual_sales_qty, target_sales_qty,
            unique_customers, repeat_customers, current_stock, stock_value,
            avg_monthly_sales, sales_last_week, sales_prior_week,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            item_age_days = EXCLUDED.item_age_days,
            actual_sales_qty = EXCLUDED.actual_sales_qty,
            target_sales_qty = EXCLUDED.target_sales_qty,
            unique_customers = EXCLUDED.unique_customers,
            repeat_customers = EXCLUDED.repeat_customers,
            current_stock = EXCLUDED.current_stock,
            stock_value = EXCLUDED.stock_value,
            avg_monthly_sales = EXCLUDED.avg_monthly_sales,
            sales_last_week = EXCLUDED.sales_last_week,
            sales_prior_week = EXCLUDED.sales_prior_week,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return stats, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			item.ItemCode, item.ItemName, item.ItemAgeDays, item.ActualSalesQty, item.TargetSalesQty,
			item.UniqueCustomers, item.RepeatCustomers, item.CurrentStock, item.StockValue,
			item.AvgMonthlySales, item.SalesLastWeek, item.SalesPriorWeek,
		).Scan(&inserted)
		if err != nil {
			log.Error().Err(err).Str("item_code", item.ItemCode).Msg("failed to load new item row")
			stats.Errors++
			continue
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Str("file", filePath).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("errors", stats.Errors).
		Msg("new item metrics loaded")
	return stats, nil
}
