// Package db implements the `db` commands for inspecting past jobs,
// per-keyword outcomes, and diagnostic snapshots.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/searchmill/serptopics/pkg/jobdb"
)

func JobsAction(c *cli.Context) error {
	database, err := jobdb.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	jobs, err := database.ListJobs(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-9s %-8s %-8s %-8s %-4s %-10s %-30s\n",
		"ID", "Created", "Keywords", "Success", "Failed", "Records", "K", "Silhouette", "Session Dir")
	fmt.Println(strings.Repeat("-", 110))

	for _, j := range jobs {
		sil := "-"
		if j.Silhouette.Valid {
			sil = fmt.Sprintf("%.3f", j.Silhouette.Float64)
		}
		fmt.Printf("%-6d %-20s %-9d %-8d %-8d %-8d %-4d %-10s %-30s\n",
			j.ID,
			j.CreatedAt.Format("2006-01-02 15:04:05"),
			j.KeywordCount,
			j.SuccessCount,
			j.FailedCount,
			j.RecordCount,
			j.ChosenK,
			sil,
			j.SessionDir,
		)
	}

	fmt.Printf("\nTotal: %d jobs\n", len(jobs))
	fmt.Printf("\nTip: Use 'serptopics db job <id>' to see details\n")

	return nil
}

// JobAction shows one job's keywords and their attempt traces.
func JobAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("job ID required\nUsage: serptopics db job <id>")
	}
	jobID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job ID: %s", c.Args().First())
	}

	database, err := jobdb.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	job, err := database.GetJobByID(jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	keywords, err := database.GetJobKeywords(jobID)
	if err != nil {
		return fmt.Errorf("failed to get job keywords: %w", err)
	}

	fmt.Printf("Job %d\n", job.ID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Directory:   %s\n", job.SessionDir)
	fmt.Printf("Keywords:    %d total (%d success, %d failed)\n",
		job.KeywordCount, job.SuccessCount, job.FailedCount)
	fmt.Printf("Records:     %d\n", job.RecordCount)
	if job.RequestedK > 0 {
		fmt.Printf("K:           %d (requested %d)\n", job.ChosenK, job.RequestedK)
	} else {
		fmt.Printf("K:           %d (auto-selected)\n", job.ChosenK)
	}
	if job.Silhouette.Valid {
		fmt.Printf("Silhouette:  %.3f\n", job.Silhouette.Float64)
	}

	fmt.Printf("\nKeywords (%d):\n", len(keywords))
	fmt.Println(strings.Repeat("-", 60))
	for i, kw := range keywords {
		fmt.Printf("%2d. [%s] %s\n", i+1, kw.Status, kw.Keyword)
		if kw.Status == "success" {
			fmt.Printf("    Records: %d | Source: %s\n", kw.RecordCount, kw.Source)
		}

		attempts, err := database.GetAttempts(kw.ID)
		if err != nil {
			fmt.Printf("    (failed to load attempts: %s)\n", err)
			continue
		}
		for _, att := range attempts {
			line := fmt.Sprintf("    [#%d] %s: %s", att.ID, att.Backend, att.Outcome)
			if att.Reason != "" {
				line += fmt.Sprintf(" (%s)", att.Reason)
			}
			if att.ElapsedMS > 0 {
				line += fmt.Sprintf(" %dms", att.ElapsedMS)
			}
			fmt.Println(line)
			if att.ArtifactPath != "" {
				fmt.Printf("          snapshot: %s\n", att.ArtifactPath)
			}
		}
	}

	fmt.Printf("\nTip: Use 'serptopics db artifact <attempt-id>' to dump a snapshot\n")

	return nil
}

// ArtifactAction dumps the diagnostic snapshot recorded for one attempt.
func ArtifactAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("attempt ID required\nUsage: serptopics db artifact <attempt-id>")
	}
	attemptID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid attempt ID: %s", c.Args().First())
	}

	database, err := jobdb.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	path, err := database.GetArtifactPath(attemptID)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("attempt %d recorded no snapshot", attemptID)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot file missing: %s", path)
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
