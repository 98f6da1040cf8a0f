package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"customer-meetings/internal/config"
	"customer-meetings/internal/db"
	"customer-meetings/internal/importer"
	customerrepo "customer-meetings/internal/repository/customer"
	meetingrepo "customer-meetings/internal/repository/meeting"
)

func main() {
	var (
		filePath string
		kind     string
	)
	flag.StringVar(&filePath, "file", "", "Path to a CSV or JSON export")
	flag.StringVar(&kind, "kind", "customers", "What the file contains: customers or meetings")
	flag.Parse()

	if filePath == "" || (kind != "customers" && kind != "meetings") {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	src := importer.SourceCSV
	if strings.EqualFold(filepath.Ext(filePath), ".json") {
		src = importer.SourceJSON
	}

	var records []importer.Record
	if src == importer.SourceJSON {
		records, err = importer.DecodeJSON(f)
	} else {
		records, err = importer.DecodeCSV(f)
	}
	if err != nil {
		logger.Fatalf("decode %s: %v", filePath, err)
	}

	imp := importer.New(
		customerrepo.NewPostgres(pool, logger),
		meetingrepo.NewPostgres(pool, logger),
		logger,
	)

	start := time.Now()
	var successes, failures int
	var rowErrors []importer.RowError
	if kind == "customers" {
		summary := imp.ImportCustomers(ctx, records, src)
		successes, failures, rowErrors = summary.SuccessCount, summary.ErrorCount, summary.Errors
	} else {
		summary := imp.ImportMeetings(ctx, records, src)
		successes, failures, rowErrors = summary.SuccessCount, summary.ErrorCount, summary.Errors
	}

	for _, re := range rowErrors {
		if re.Row > 0 {
			logger.Printf("row %d: %s", re.Row, re.Message)
			continue
		}
		logger.Printf("row (%s%s%s): %s", re.Email, re.CustomerEmail, re.CustomerID, re.Message)
	}

	fmt.Printf("Imported %d %s (%d failed) in %s\n", successes, kind, failures, time.Since(start).Truncate(time.Millisecond))
}
