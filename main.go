//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
)

// --- CLI definitions --- //

type Globals struct {
	Debug bool `help:"Enable debug logs." name:"debug"`
}

type CLI struct {
	Globals

	Search SearchCmd `cmd:"" help:"Find the lowest-payout combinations."`
	Score  ScoreCmd  `cmd:"" help:"Score one combination against the tickets."`
	Runs   RunsCmd   `cmd:"" help:"List or show stored runs."`
}

type SearchCmd struct {
	Tickets    string        `arg:"" help:"Ticket file (.json, .csv or .txt)." type:"existingfile"`
	ConfigPath string        `help:"YAML tuning file." name:"config" type:"existingfile"`
	Mode       string        `help:"Search mode: annealed, exhaustive or randomized." name:"mode"`
	K          int           `help:"Number of results to report." name:"k"`
	Pool       int           `help:"Least-frequent values used by the exhaustive scan and biased seeds (search depth)." name:"pool"`
	Budget     int           `help:"Candidates scanned in exhaustive/randomized mode." name:"budget"`
	Deadline   time.Duration `help:"Wall-clock limit for the search phase, e.g. 30s." name:"deadline"`
	Iters      int           `help:"Steps per annealer run." name:"iters"`
	Temp       float64       `help:"Initial annealing temperature." name:"temp"`
	Seed       uint64        `help:"Random seed." name:"seed"`
	Workers    int           `help:"Parallel workers (0 = GOMAXPROCS)." name:"workers"`
	JSON       bool          `help:"Output results as JSON." name:"json"`
	Store      string        `help:"Save the run to the badger store in this directory." name:"store"`
	NATSURL    string        `help:"Publish the run to this NATS server." name:"nats-url"`
	Subject    string        `help:"NATS subject for published runs." default:"payout.results" name:"subject"`
}

type ScoreCmd struct {
	Tickets string `arg:"" help:"Ticket file (.json, .csv or .txt)." type:"existingfile"`
	Combo   string `arg:"" help:"Combination, e.g. 1,2,3,4,5,6,7."`
	JSON    bool   `help:"Output as JSON." name:"json"`
}

type RunsCmd struct {
	Store string `help:"Badger store directory." required:"" name:"store"`
	ID    string `help:"Show this run instead of listing." name:"id"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("payout-optimizer"),
		kong.Description("Finds the 7-of-37 combinations that pay out least against issued tickets."),
		kong.UsageOnError(),
	)
	initLogging(cli.Debug)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	InitLogger(LogOptions{Level: level})
}

// --- search --- //

// apply overlays the flags that were set onto cfg.
func (c *SearchCmd) apply(cfg *Config) {
	if c.Mode != "" {
		cfg.Mode = Mode(c.Mode)
	}
	if c.K != 0 {
		cfg.K = c.K
	}
	if c.Pool != 0 {
		cfg.PoolSize = c.Pool
	}
	if c.Budget != 0 {
		cfg.Budget = c.Budget
	}
	if c.Deadline != 0 {
		cfg.Deadline = c.Deadline
	}
	if c.Iters != 0 {
		cfg.AnnealIters = c.Iters
	}
	if c.Temp != 0 {
		cfg.T0 = c.Temp
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}
}

func (c *SearchCmd) Run(_ *Globals) error {
	cfg := DefaultConfig()
	if c.ConfigPath != "" {
		var err error
		if cfg, err = LoadConfig(c.ConfigPath); err != nil {
			return err
		}
	}
	c.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := loadStore(c.Tickets)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runSearch(ctx, store, cfg)
	if err != nil {
		return err
	}
	rec := NewRunRecord(c.Tickets, store, cfg, res)

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else {
		fmt.Print(FormatResult(rec.Result))
	}

	if c.Store != "" {
		rs, err := OpenResultStore(c.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer rs.Close()
		if err := rs.Save(rec); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("run saved", "id", rec.ID, "store", c.Store)
	}
	if c.NATSURL != "" {
		pub, err := NewPublisher(c.NATSURL, c.Subject)
		if err != nil {
			return err
		}
		defer pub.Close()
		if err := pub.Publish(rec); err != nil {
			return fmt.Errorf("publish run: %w", err)
		}
		slog.Info("run published", "id", rec.ID, "subject", c.Subject)
	}
	return nil
}

func loadStore(path string) (*TicketStore, error) {
	tickets, stats, err := LoadTickets(path)
	if err != nil {
		return nil, err
	}
	slog.Info("tickets loaded", "file", path, "loaded", stats.Loaded, "skipped", stats.Skipped)
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTickets)
	}
	return NewTicketStore(tickets), nil
}

// --- score --- //

func (c *ScoreCmd) Run(_ *Globals) error {
	combo, err := ParseCombo(c.Combo)
	if err != nil {
		return err
	}
	store, err := loadStore(c.Tickets)
	if err != nil {
		return err
	}
	m, err := NewMatrix(store, DefaultTiers())
	if err != nil {
		return err
	}
	score, bd := m.Score(combo.Mask())

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(EntryView{Rank: 1, Combination: combo, Score: score, Breakdown: bd})
	}
	fmt.Print(FormatScore(combo, score, bd, m.Tiers()))
	return nil
}

// --- runs --- //

func (c *RunsCmd) Run(_ *Globals) error {
	rs, err := OpenResultStore(c.Store)
	if err != nil {
		return err
	}
	defer rs.Close()

	if c.ID != "" {
		rec, err := rs.Get(c.ID)
		if err != nil {
			return fmt.Errorf("run %s: %w", c.ID, err)
		}
		fmt.Printf("Run %s (%s) from %s\n", rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.Source)
		fmt.Print(FormatResult(rec.Result))
		return nil
	}

	recs, err := rs.List()
	if err != nil {
		return err
	}
	fmt.Printf("%-36s %-20s %-10s %8s %10s\n", "ID", "Created", "Mode", "Tickets", "Best")
	for _, rec := range recs {
		best := "-"
		if len(rec.Result.Entries) > 0 {
			best = fmt.Sprint(rec.Result.Entries[0].Score)
		}
		fmt.Printf("%-36s %-20s %-10s %8d %10s\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Result.Mode, rec.Result.Tickets, best)
	}
	return nil
}
