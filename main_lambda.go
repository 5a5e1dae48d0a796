//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/tidwall/gjson"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// Request body:
//
//	{"tickets": [[1,2,3,4,5,6,7], "8,9,10,11,12,13,14"], "mode": "annealed", "k": 10,
//	 "seed": 1, "budget": 200000, "deadlineSeconds": 20}
//
// Everything but tickets is optional and falls back to DefaultConfig.
func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}

	req := gjson.Parse(body)
	raw := req.Get("tickets")
	if !raw.IsArray() {
		return errResp(400, "missing tickets array")
	}
	tickets, stats, err := parseTicketArray(raw)
	if err != nil {
		return errResp(400, err.Error())
	}
	if len(tickets) == 0 {
		return errResp(400, "no valid tickets")
	}

	cfg := DefaultConfig()
	if v := req.Get("mode"); v.Exists() {
		cfg.Mode = Mode(v.String())
	}
	if v := req.Get("k"); v.Exists() {
		cfg.K = int(v.Int())
	}
	if v := req.Get("seed"); v.Exists() {
		cfg.Seed = v.Uint()
	}
	if v := req.Get("budget"); v.Exists() {
		cfg.Budget = int(v.Int())
	}
	if v := req.Get("poolSize"); v.Exists() {
		cfg.PoolSize = int(v.Int())
	}
	if v := req.Get("deadlineSeconds"); v.Exists() {
		cfg.Deadline = time.Duration(v.Float() * float64(time.Second))
	}
	if err := cfg.Validate(); err != nil {
		return errResp(400, err.Error())
	}

	store := NewTicketStore(tickets)
	res, err := runSearch(ctx, store, cfg)
	if err != nil {
		return errResp(500, err.Error())
	}
	slog.Info("request done", "loaded", stats.Loaded, "skipped", stats.Skipped, "elapsed", res.Elapsed)

	resp := struct {
		Load   LoadStats  `json:"load"`
		Result ResultView `json:"result"`
	}{stats, NewResultView(res, store.Len())}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	InitLogger(LogOptions{Level: slog.LevelInfo})
	lambda.Start(handler)
}
