// Package scrape downloads the daily share-price table and archives it as a
// dated CSV file that the stock package can index.
package scrape

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/oarkflow/anonymizer"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/log"
	"github.com/oarkflow/search"

	"github.com/oarkflow/swingtrade/config"
)

var headerMapping = map[string]string{
	"Symbol":        "Symbol",
	"Conf.":         "Confidence",
	"Open":          "OpenPrice",
	"High":          "HighPrice",
	"Low":           "LowPrice",
	"Close":         "ClosePrice",
	"VWAP":          "VWAP",
	"Vol":           "Volume",
	"Prev. Close":   "PreviousClose",
	"Turnover":      "Turnover",
	"Trans.":        "Transactions",
	"Diff":          "Difference",
	"Range":         "Range",
	"Diff %":        "DifferencePercentage",
	"Range %":       "RangePercentage",
	"VWAP %":        "VWAPPercentage",
	"120 Days":      "120Days",
	"180 Days":      "180Days",
	"52 Weeks High": "52WeeksHigh",
	"52 Weeks Low":  "52WeeksLow",
}

// NormalizeArchive renames every file in dir from fromPattern to toPattern,
// e.g. "<year>_<month>_<date>.csv" to "<year>-<month>-<date>.csv". Useful
// when an older archive predates the current file naming.
func NormalizeArchive(dir, fromPattern, toPattern string) error {
	dirInfos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, dirInfo := range dirInfos {
		output, err := anonymizer.Transform(fromPattern, toPattern, dirInfo.Name())
		if err != nil {
			return err
		}
		err = os.Rename(filepath.Join(dir, dirInfo.Name()), filepath.Join(dir, output))
		if err != nil {
			return err
		}
	}
	return nil
}

// RenameHeaders renames the headers in the CSV file based on the provided mapping
func RenameHeaders(inputFile, outputFile string, headMap ...map[string]string) error {
	mapping := headerMapping
	if len(headMap) > 0 {
		mapping = headMap[0]
	}
	file, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV data: %v", err)
	}

	if len(records) == 0 {
		return fmt.Errorf("no data in CSV file")
	}

	oldHeaders := records[0]
	newHeaders := make([]string, len(oldHeaders))

	oldHeaderMap := make(map[string]int)
	for i, header := range oldHeaders {
		oldHeaderMap[header] = i
	}

	for oldHeader, newHeader := range mapping {
		if index, found := oldHeaderMap[oldHeader]; found {
			newHeaders[index] = newHeader
		}
	}

	// Headers outside the mapping keep their original names.
	for i, header := range oldHeaders {
		if newHeaders[i] == "" {
			newHeaders[i] = header
		}
	}

	records[0] = newHeaders

	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)
	err = writer.WriteAll(records)
	if err != nil {
		return fmt.Errorf("failed to write CSV data: %v", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error during flush: %v", err)
	}

	return nil
}

// Scrape fetches today's share-price table unless the stock index already
// has rows for today, then archives it under the configured data directory.
func Scrape() error {
	engine, err := search.GetEngine[map[string]any]("stock")
	if err != nil {
		return err
	}
	now := time.Now()
	result, err := engine.Search(&search.Params{Query: now.Format(time.DateOnly), Properties: []string{"Date"}})
	if err != nil {
		return err
	}
	if result.Count > 0 {
		log.Info().Str("date", now.Format(time.DateOnly)).Msg("daily quotes already indexed, skipping scrape")
		return nil
	}
	return fetchDay(now)
}

func fetchDay(date time.Time) error {
	url := "https://www.sharesansar.com/today-share-price"
	df, err := fetchDailyTable(url)
	if err != nil {
		return err
	}
	if len(df) < 2 {
		return errors.New(fmt.Sprintf("no rows scraped for %s", date.Format(time.DateOnly)))
	}
	path := filepath.Join(config.Config.DataDir, fmt.Sprintf("%s.csv", date.Format(time.DateOnly)))
	if err := writeCSV(dedupeRows(df), path); err != nil {
		return err
	}
	return RenameHeaders(path, path)
}

func fetchDailyTable(url string) ([][]string, error) {
	c := colly.NewCollector(
		colly.AllowedDomains("www.sharesansar.com"),
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/102.0.5005.115 Safari/537.36"),
	)

	var df [][]string
	var headers []string

	c.OnHTML("table.table-bordered", func(e *colly.HTMLElement) {
		e.ForEach("tr", func(_ int, el *colly.HTMLElement) {
			var row []string
			el.ForEach("th, td", func(_ int, cell *colly.HTMLElement) {
				row = append(row, strings.TrimSpace(cell.Text))
			})
			if len(headers) == 0 {
				headers = row
			} else {
				df = append(df, row)
			}
		})
	})

	c.OnRequest(func(r *colly.Request) {
		log.Info().Str("url", r.URL.String()).Msg("visiting")
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = errors.NewE(err, fmt.Sprintf("scrape failed with status %d", r.StatusCode), "")
	})

	if err := c.Visit(url); err != nil {
		return nil, err
	}
	if visitErr != nil {
		return nil, visitErr
	}

	return append([][]string{headers}, df...), nil
}

// dedupeRows drops repeated data rows; the site occasionally renders the
// same symbol twice when the table refreshes mid-load.
func dedupeRows(df [][]string) [][]string {
	unique := make(map[string]bool)
	newDf := [][]string{df[0]}
	for _, row := range df[1:] {
		key := strings.Join(row, ",")
		if !unique[key] {
			unique[key] = true
			newDf = append(newDf, row)
		}
	}
	return newDf
}

func writeCSV(data [][]string, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.NewE(err, "could not create CSV file", "")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return errors.NewE(err, "could not write to CSV file", "")
		}
	}
	return nil
}
