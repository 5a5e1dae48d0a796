package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadStats reports how many raw records a loader saw and how many it kept.
type LoadStats struct {
	Records int `json:"records"`
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// LoadTickets reads a ticket file. Files ending in .json go through ParseTicketsJSON; anything
// else is read as text with one ticket per row.
func LoadTickets(path string) ([]Ticket, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, LoadStats{}, err
		}
		return ParseTicketsJSON(data)
	}
	return ParseTicketText(f)
}

// ParseTicketText reads one ticket per row. A row is either a single cell such as
// "1,2,3,4,5,6,7" (a spreadsheet column exported to CSV) or seven numeric cells.
// Blank rows are ignored; rows that do not form a valid ticket are skipped and counted.
func ParseTicketText(r io.Reader) ([]Ticket, LoadStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		tickets []Ticket
		stats   LoadStats
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Records++
				stats.Skipped++
				slog.Warn("skip unreadable row", "line", perr.Line, "err", perr.Err)
				continue
			}
			return nil, stats, err
		}
		row := rowText(rec)
		if row == "" {
			continue
		}
		stats.Records++

		values, err := parseValues(row)
		if err == nil {
			var t Ticket
			if t, err = NewTicket(values); err == nil {
				tickets = append(tickets, t)
				stats.Loaded++
				continue
			}
		}
		stats.Skipped++
		slog.Debug("skip row", "row", stats.Records, "text", row, "err", err)
	}
	return tickets, stats, nil
}

// rowText joins the non-empty cells of a record. A single cell is returned as is.
func rowText(rec []string) string {
	cells := make([]string, 0, len(rec))
	for _, c := range rec {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, ",")
}

// parseValues splits s on commas, semicolons or whitespace and parses each part as an integer.
// Integral floats such as "7.0" are accepted, as spreadsheets often write them.
func parseValues(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			fv, ferr := strconv.ParseFloat(f, 64)
			if ferr != nil || fv != float64(int(fv)) {
				return nil, fmt.Errorf("not an integer: %q", f)
			}
			v = int(fv)
		}
		out = append(out, v)
	}
	return out, nil
}
