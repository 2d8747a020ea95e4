package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	internaldb "github.com/searchmill/serptopics/internal/db"
	"github.com/searchmill/serptopics/internal/run"
)

func main() {
	app := &cli.App{
		Name:  "serptopics",
		Usage: "Cluster search keywords by the topics their result pages share",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Retrieve SERPs for keywords and cluster the combined corpus",
				Action: run.RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "keywords",
						Usage:    "Comma-separated keywords to retrieve and cluster",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "per-keyword",
						Usage: "Results to request per keyword",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "Cluster count; 0 selects k automatically by silhouette",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to YAML config file",
						Value: "config.yaml",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent keyword workers (overrides config)",
					},
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Whole-job timeout in seconds (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "api-first",
						Usage: "Try API backends before the live backend",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
			},
			{
				Name:  "db",
				Usage: "Inspect recorded jobs and diagnostic snapshots",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the job database",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "jobs",
						Usage:  "List recent jobs",
						Action: internaldb.JobsAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "db", Usage: "Path to the job database"},
							&cli.IntFlag{Name: "limit", Usage: "Max jobs to list", Value: 20},
						},
					},
					{
						Name:   "job",
						Usage:  "Show one job's keywords and attempt traces",
						Action: internaldb.JobAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "db", Usage: "Path to the job database"},
						},
					},
					{
						Name:   "artifact",
						Usage:  "Dump the diagnostic snapshot of one attempt",
						Action: internaldb.ArtifactAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "db", Usage: "Path to the job database"},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
