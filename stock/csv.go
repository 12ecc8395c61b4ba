package stock

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/oarkflow/convert"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/log"
	"github.com/oarkflow/search"
)

// InitCSVStock indexes every daily CSV file under directory into the
// "stock" search engine. One file holds one trading day; the date comes
// from the file name.
func InitCSVStock(directory string) {
	files, err := loadAllCSVFiles(directory)
	if err != nil {
		panic(err)
	}
	engine, err := search.SetEngine[map[string]any]("stock", &search.Config{})
	if err != nil {
		panic(err)
	}
	log.Info().Msg("Indexing stock")
	engine.InsertWithPool(files, runtime.NumCPU(), 1000)
	log.Info().Msg("Indexed stock")
}

func parseFloat(value string) (float64, error) {
	value = strings.ReplaceAll(value, ",", "")
	return strconv.ParseFloat(value, 64)
}

// parseCSVFile reads one day file into row maps keyed by header. Numeric
// columns arrive with thousands separators and "-" placeholders; both are
// normalized here, and the trading date is recovered from the file name.
func parseCSVFile(filename string) ([]map[string]any, error) {
	name := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ".csv"), "_", "-")
	date, err := dateparse.ParseAny(name)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("bad date in file name %s", filename), "")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("open %s", filename), "")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("read %s", filename), "")
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	mapData := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		d := make(map[string]any, len(headers)+1)
		for i, key := range headers {
			if i >= len(record) {
				break
			}
			val := record[i]
			if slices.Contains([]string{"Symbol"}, key) || val == "-" {
				d[key] = val
				continue
			}
			if key == "Transactions" {
				if parsed, ok := convert.ToInt(strings.ReplaceAll(val, ",", "")); ok {
					d[key] = parsed
					continue
				}
				return nil, errors.New(fmt.Sprintf("%s: %v", key, val))
			}
			parsed, err := parseFloat(val)
			if err != nil {
				return nil, errors.Wrap(err, fmt.Sprintf("%s: %v", key, val), "")
			}
			d[key] = parsed
		}
		d["Date"] = date.Format(time.DateOnly)
		mapData = append(mapData, d)
	}
	return mapData, nil
}

func loadAllCSVFiles(directory string) ([]map[string]interface{}, error) {
	var allData []map[string]interface{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	var errList []error
	dataCh := make(chan []map[string]interface{})
	errCh := make(chan error)
	doneCh := make(chan struct{})

	// Walk through the directory
	go func() {
		err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".csv" {
				wg.Add(1)
				go func(path string) {
					defer wg.Done()
					data, err := parseCSVFile(path)
					if err != nil {
						errCh <- err
						return
					}
					dataCh <- data
				}(path)
			}
			return nil
		})

		if err != nil {
			errCh <- err
		}

		// Wait for all goroutines to finish
		wg.Wait()
		close(doneCh)
	}()

	for {
		select {
		case data := <-dataCh:
			mu.Lock()
			allData = append(allData, data...)
			mu.Unlock()
		case err := <-errCh:
			mu.Lock()
			errList = append(errList, err)
			mu.Unlock()
		case <-doneCh:
			if len(errList) > 0 {
				return nil, fmt.Errorf("errors occurred: %v", errList)
			}
			return allData, nil
		}
	}
}
