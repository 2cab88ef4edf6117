package marketdata

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"StockGym/internal/model"
)

// Open loads the historical store from the SQLite database and the intraday
// template CSV. The load is eager and synchronous; it happens once per
// process and can take a while on the full data set.
func Open(dbPath, templateCSV string) (*Store, error) {
	log.Printf("[INFO] loading historical data from %s, this may take a while", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	index, err := loadIndexHistory(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] index daily history: %d rows", len(index))

	companies, err := loadCompanies(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] company catalog: %d rows", len(companies))

	sectors, err := loadSectors(db)
	if err != nil {
		return nil, err
	}

	bars, err := loadDailyBars(db)
	if err != nil {
		return nil, err
	}

	templates, err := LoadTemplateCSV(templateCSV)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] intraday templates: %d ticks", templates.Len())

	store := NewStore(index, bars, companies, sectors, templates)
	log.Printf("[INFO] historical range %s to %s",
		store.MinDate().Format(dateFmt), store.MaxDate().Format(dateFmt))
	return store, nil
}

func loadIndexHistory(db *sql.DB) ([]model.IndexBar, error) {
	rows, err := db.Query(`SELECT index_date, open_index, close_index, high_index, low_index
		FROM stock_asxindexdailyhistory WHERE index_name = 'ALL ORD' ORDER BY index_date`)
	if err != nil {
		return nil, fmt.Errorf("query index history: %w", err)
	}
	defer rows.Close()

	var out []model.IndexBar
	for rows.Next() {
		var b model.IndexBar
		if err := rows.Scan(&b.Date, &b.Open, &b.Close, &b.High, &b.Low); err != nil {
			return nil, fmt.Errorf("scan index history: %w", err)
		}
		b.Date = trimDate(b.Date)
		out = append(out, b)
	}
	return out, rows.Err()
}

func loadCompanies(db *sql.DB) (map[int]model.Company, error) {
	rows, err := db.Query(`SELECT id, name, description, code, sector_id FROM stock_company`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	out := make(map[int]model.Company)
	for rows.Next() {
		var c model.Company
		var desc sql.NullString
		var sectorID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Code, &sectorID); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.Description = desc.String
		c.SectorID = int(sectorID.Int64)
		out[c.ID] = c
	}
	return out, rows.Err()
}

func loadSectors(db *sql.DB) (map[int]model.Sector, error) {
	rows, err := db.Query(`SELECT id, name, full_name FROM stock_sector`)
	if err != nil {
		return nil, fmt.Errorf("query sectors: %w", err)
	}
	defer rows.Close()

	out := make(map[int]model.Sector)
	for rows.Next() {
		var s model.Sector
		if err := rows.Scan(&s.ID, &s.Name, &s.FullName); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func loadDailyBars(db *sql.DB) (map[string][]model.PriceBar, error) {
	rows, err := db.Query(`SELECT price_date, open_price, close_price, high_price, low_price, company_id
		FROM stock_stockpricedailyhistory ORDER BY price_date`)
	if err != nil {
		return nil, fmt.Errorf("query daily bars: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.PriceBar)
	for rows.Next() {
		var date string
		var b model.PriceBar
		if err := rows.Scan(&date, &b.Open, &b.Close, &b.High, &b.Low, &b.CompanyID); err != nil {
			return nil, fmt.Errorf("scan daily bar: %w", err)
		}
		date = trimDate(date)
		out[date] = append(out[date], b)
	}
	return out, rows.Err()
}

// trimDate normalizes "YYYY-MM-DD HH:MM:SS" timestamps to bare dates.
func trimDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
