package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/oarkflow/swingtrade/app/models"
	"github.com/oarkflow/swingtrade/config"
	"github.com/oarkflow/swingtrade/patterns"
	"github.com/oarkflow/swingtrade/stock"
)

// JSONError is json error massage
type JSONError struct {
	Error string `json:"error"`
}

func errorAPI(w http.ResponseWriter, message string, code int) {
	jsonMessage, err := json.Marshal(JSONError{Error: message})
	if err != nil {
		logrus.Warnf("error message create error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	w.Write(jsonMessage)
}

// IndexAPIHandler returns index.html contents,
// when path is "/"
func IndexAPIHandler(w http.ResponseWriter, req *http.Request) {
	temp := template.Must(template.ParseFiles("templates/index.html"))
	temp.ExecuteTemplate(w, "index.html", nil)
}

// CandleGetAPIHandler gets stock data, latest run summary and screening signals,
// when path is "/candles"
func CandleGetAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("candle get request: url -> %s", req.URL)

	get, _ := strconv.ParseBool(req.URL.Query().Get("get"))
	symbol := req.URL.Query().Get("symbol")
	period, err := strconv.Atoi(req.URL.Query().Get("period"))

	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}

	if get && err != nil {
		errorAPI(w, "bad parameter(get, symbol)", http.StatusBadRequest)
		return
	}

	dframe := models.NewDataFrame()

	// Downloads stock data
	if get {
		quote, err := stock.GetStockData(symbol, period)
		if err != nil || len(quote.Date) == 0 {
			logrus.Warnf("stock get error, symbol: %v", symbol)
			errorAPI(w, fmt.Sprintf("stock get error, symbol: %v", symbol), http.StatusBadRequest)
			return
		}
		// After delete existing data, store stock data in DB
		models.AllDeleteCandles()
		models.NewCandlesFromQuote(quote).CreateCandles()
		dframe.AddCandleFrame(symbol, period)
		dframe.AddRunFrame(symbol)
	}

	screen, _ := strconv.ParseBool(req.URL.Query().Get("screen"))
	if screen {
		cframe := models.GetCandleFrame(symbol, period)
		models.CreateEmaCrossSignals(cframe.ScreenEmaCross(5, 20))
		dframe.AddTradeFrame(symbol)
	}

	dframe.AddSignalFrame(symbol)

	js, err := json.Marshal(dframe)
	if err != nil {
		logrus.Warnf("candle json error: %v", err)
		errorAPI(w, "candle json error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// BacktestAPIHandler executes backtest, returns the run summary,
// when path is "/backtest"
func BacktestAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Info("backtest request")
	dec := json.NewDecoder(req.Body)

	var bp models.BacktestParam
	if err := dec.Decode(&bp); err != nil {
		logrus.Warnf("backtest params error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest params error: %v", err), http.StatusInternalServerError)
		return
	}

	run, err := bp.BackTest()
	if err != nil {
		logrus.Warnf("backtest error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest error: %v", err), http.StatusInternalServerError)
		return
	}

	if err := run.CreateRunResult(); err != nil {
		logrus.Warnf("backtest store error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest store error: %v", err), http.StatusInternalServerError)
		return
	}

	dframe := models.NewDataFrame()
	dframe.AddRunFrame(bp.Symbol)

	js, err := json.Marshal(dframe)
	if err != nil {
		logrus.Warnf("run json error: %v", err)
		errorAPI(w, "run json error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// WorksheetAPIHandler returns the stored worksheet of the latest run,
// when path is "/worksheet"
func WorksheetAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("worksheet request: url -> %s", req.URL)

	symbol := req.URL.Query().Get("symbol")
	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}

	rframe := models.GetRunFrame(symbol)
	if rframe.Run == nil {
		errorAPI(w, fmt.Sprintf("no run for symbol: %v", symbol), http.StatusNotFound)
		return
	}

	entries, err := rframe.Run.WorksheetEntries()
	if err != nil {
		logrus.Warnf("worksheet decode error: %v", err)
		errorAPI(w, "worksheet decode error", http.StatusInternalServerError)
		return
	}

	js, err := json.Marshal(entries)
	if err != nil {
		logrus.Warnf("worksheet json error: %v", err)
		errorAPI(w, "worksheet json error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// PatternAPIHandler scans the stored candles for candlestick patterns,
// when path is "/patterns"
func PatternAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("pattern scan request: url -> %s", req.URL)

	symbol := req.URL.Query().Get("symbol")
	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}
	period, err := strconv.Atoi(req.URL.Query().Get("period"))
	if err != nil {
		errorAPI(w, "bad parameter(period)", http.StatusBadRequest)
		return
	}

	cframe := models.GetCandleFrame(symbol, period)
	stats := patterns.Scan(cframe.PriceBars())

	js, err := json.Marshal(stats)
	if err != nil {
		logrus.Warnf("pattern json error: %v", err)
		errorAPI(w, "pattern json error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// Run starts webserver
func Run() {
	logrus.Info("server start")
	fs := http.FileServer(http.Dir("./static"))
	http.Handle("/static/", http.StripPrefix("/static/", fs))
	http.HandleFunc("/", IndexAPIHandler)
	http.HandleFunc("/candles", CandleGetAPIHandler)
	http.HandleFunc("/backtest", BacktestAPIHandler)
	http.HandleFunc("/worksheet", WorksheetAPIHandler)
	http.HandleFunc("/patterns", PatternAPIHandler)
	logrus.Fatalln(http.ListenAndServe(fmt.Sprintf(":%d", config.Config.Port), nil))
}
