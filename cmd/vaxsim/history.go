package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dd0wney/cluso-vaxsim/pkg/report"
	"github.com/dd0wney/cluso-vaxsim/pkg/store"
)

// history inspects experiments saved with -postgres
func history(args []string) error {
	fs := flag.NewFlagSet("vaxsim history", flag.ContinueOnError)
	pgURL := fs.String("postgres", os.Getenv("VAXSIM_DATABASE_URL"), "Postgres URL (default $VAXSIM_DATABASE_URL)")
	limit := fs.Int("limit", 20, "Number of experiments to list")
	show := fs.String("show", "", "Print the stored CSV report for this experiment id")
	del := fs.String("delete", "", "Delete this experiment id")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *pgURL == "" {
		return fmt.Errorf("no database: pass -postgres or set VAXSIM_DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := store.NewPGStore(ctx, *pgURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	switch {
	case *del != "":
		if err := pg.DeleteExperiment(ctx, *del); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", *del)
		return nil
	case *show != "":
		return showExperiment(ctx, pg, *show, os.Stdout)
	default:
		return listExperiments(ctx, pg, *limit, os.Stdout)
	}
}

func listExperiments(ctx context.Context, pg *store.PGStore, limit int, w io.Writer) error {
	records, err := pg.ListExperiments(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No experiments stored")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %5s  %-12s  %8s  %s\n", "ID", "Created", "Dogs", "Best", "Improve%", "Duration")
	for _, rec := range records {
		fmt.Fprintf(w, "%-36s  %-20s  %5d  %-12s  %8.1f  %s\n",
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Population,
			rec.Best,
			rec.Improvement,
			rec.Duration)
	}
	return nil
}

func showExperiment(ctx context.Context, pg *store.PGStore, id string, w io.Writer) error {
	rec, err := pg.GetExperiment(ctx, id)
	if err != nil {
		return err
	}
	results, err := pg.LoadResults(ctx, id)
	if err != nil {
		return err
	}
	summaries, err := pg.LoadSummaries(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# experiment %s seed=%d best=%s\n", rec.ID, rec.Seed, rec.Best)
	return report.WriteCSV(w, summaries, results)
}
