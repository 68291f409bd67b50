package candles

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"backtest-lab/internal/domain"
)

// csvColumns is the expected header for candle CSV files:
// timestamp in epoch milliseconds, then OHLCV and vwap.
var csvColumns = []string{"timestamp", "open", "high", "low", "close", "volume", "vwap"}

// LoadCSV reads a candle series for one symbol from a CSV file with a
// timestamp,open,high,low,close,volume,vwap header. Rows must already
// be sorted by timestamp; ordering is validated by the caller.
func LoadCSV(path, symbol string) ([]domain.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, symbol)
}

// ReadCSV parses candle rows from r. The first row must be the header.
func ReadCSV(r io.Reader, symbol string) ([]domain.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read candle csv header: %w", err)
	}
	for i, want := range csvColumns {
		if header[i] != want {
			return nil, fmt.Errorf("candle csv header: column %d is %q, want %q", i, header[i], want)
		}
	}

	var out []domain.Candle
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candle csv row: %w", err)
		}
		c, err := parseRow(rec, symbol)
		if err != nil {
			return nil, fmt.Errorf("candle csv line %d: %w", line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteCSV renders a candle series in the same layout LoadCSV reads.
func WriteCSV(w io.Writer, series []domain.Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write candle csv header: %w", err)
	}
	for _, c := range series {
		rec := []string{
			strconv.FormatInt(c.Timestamp, 10),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.Volume),
			formatFloat(c.VWAP),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write candle csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(rec []string, symbol string) (domain.Candle, error) {
	ts, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("timestamp %q: %w", rec[0], err)
	}
	vals := make([]float64, 6)
	for i, name := range csvColumns[1:] {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("%s %q: %w", name, rec[i+1], err)
		}
		vals[i] = v
	}
	return domain.Candle{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
		VWAP:      vals[5],
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
