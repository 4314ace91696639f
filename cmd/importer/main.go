package main

import (
	"context"
	"culture-explorer/internal/config"
	"culture-explorer/internal/models"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// EntryRecord is one row of the bulk-import CSV:
// type,title,description,country,city,zipcode,address,community,link,photo_url,status[,lat,lon]
type EntryRecord struct {
	Type        string
	Title       string
	Description string
	Country     string
	City        string
	Zipcode     string
	Address     string
	Community   string
	Link        string
	PhotoURL    string
	Status      string
	Lat         *float64
	Lon         *float64
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := parseCSV(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	// Ensure table exists
	err = createTableIfNotExists(conn)
	if err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	err = insertRecords(conn, records)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	err = verifyImport(conn, len(records))
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func parseCSV(filePath string) ([]EntryRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	_, err = reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []EntryRecord
	for {
		record, err := reader.Read()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 11 {
			return nil, fmt.Errorf("invalid record length: %d, expected at least 11 columns", len(record))
		}

		entry := EntryRecord{
			Type:        record[0],
			Title:       record[1],
			Description: record[2],
			Country:     record[3],
			City:        record[4],
			Zipcode:     record[5],
			Address:     record[6],
			Community:   record[7],
			Link:        record[8],
			PhotoURL:    record[9],
			Status:      record[10],
		}

		if !models.ValidType(entry.Type) {
			return nil, fmt.Errorf("invalid entry type: %s", entry.Type)
		}
		if entry.Status == "" {
			entry.Status = models.StatusApproved
		}

		// Coordinates are optional; rows without them are picked up by the
		// next enrichment pass.
		if len(record) >= 13 && record[11] != "" && record[12] != "" {
			lat, err := strconv.ParseFloat(record[11], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid latitude: %s", record[11])
			}

			lon, err := strconv.ParseFloat(record[12], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid longitude: %s", record[12])
			}

			entry.Lat = &lat
			entry.Lon = &lon
		}

		records = append(records, entry)
	}

	return records, nil
}

func createTableIfNotExists(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS entries (
		id BIGSERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		address TEXT,
		community TEXT,
		link TEXT,
		photo_url TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		consent_store BOOLEAN NOT NULL DEFAULT FALSE,
		consent_share BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS entries_status_idx ON entries (status);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertRecords(conn *pgx.Conn, records []EntryRecord) error {
	// Use CopyFrom for bulk insert
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"entries"},
		[]string{"type", "title", "description", "country", "city", "zipcode", "address", "community", "link", "photo_url", "status", "lat", "lon"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Type, r.Title, r.Description, r.Country, r.City, r.Zipcode,
				emptyToNil(r.Address), emptyToNil(r.Community), emptyToNil(r.Link), emptyToNil(r.PhotoURL),
				r.Status, r.Lat, r.Lon}, nil
		}),
	)
	return err
}

func emptyToNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func verifyImport(conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count < expectedCount {
		return fmt.Errorf("record count mismatch: expected at least %d, got %d", expectedCount, count)
	}

	var unresolved int
	err = conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM entries WHERE lat IS NULL OR lon IS NULL").Scan(&unresolved)
	if err != nil {
		return fmt.Errorf("failed to count unresolved entries: %w", err)
	}

	fmt.Printf("Entries awaiting geocoding: %d\n", unresolved)
	return nil
}
