package main

import (
	"errors"
	"log/slog"

	"github.com/tidwall/gjson"
)

// ParseTicketsJSON reads tickets from JSON. The document is either an array of tickets or an
// object holding that array under "tickets". A ticket is an array of numbers, a string such as
// "1,2,3,4,5,6,7", or an object with a "numbers" field in either form.
// Malformed tickets are skipped and counted.
func ParseTicketsJSON(data []byte) ([]Ticket, LoadStats, error) {
	if !gjson.ValidBytes(data) {
		return nil, LoadStats{}, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("tickets")
	}
	if !root.IsArray() {
		return nil, LoadStats{}, errors.New(`expected an array of tickets or an object with a "tickets" array`)
	}
	return parseTicketArray(root)
}

func parseTicketArray(arr gjson.Result) ([]Ticket, LoadStats, error) {
	var (
		tickets []Ticket
		stats   LoadStats
	)
	arr.ForEach(func(_, v gjson.Result) bool {
		stats.Records++
		values, err := ticketValues(v)
		if err == nil {
			var t Ticket
			if t, err = NewTicket(values); err == nil {
				tickets = append(tickets, t)
				stats.Loaded++
				return true
			}
		}
		stats.Skipped++
		slog.Debug("skip ticket", "index", stats.Records-1, "raw", v.Raw, "err", err)
		return true
	})
	return tickets, stats, nil
}

func ticketValues(v gjson.Result) ([]int, error) {
	if v.IsObject() {
		v = v.Get("numbers")
	}
	switch {
	case v.IsArray():
		var (
			out []int
			err error
		)
		v.ForEach(func(_, n gjson.Result) bool {
			if n.Type != gjson.Number || n.Num != float64(int(n.Num)) {
				err = errors.New("non-integer value " + n.Raw)
				return false
			}
			out = append(out, int(n.Num))
			return true
		})
		return out, err
	case v.Type == gjson.String:
		return parseValues(v.Str)
	}
	return nil, errors.New("unsupported ticket encoding " + v.Raw)
}
