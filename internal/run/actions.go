// Package run implements the `run` command: retrieve SERPs for every
// keyword, cluster the combined corpus, and export the results.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/searchmill/serptopics/internal/common"
	"github.com/searchmill/serptopics/models"
	"github.com/searchmill/serptopics/pkg/artifacts"
	"github.com/searchmill/serptopics/pkg/cluster"
	"github.com/searchmill/serptopics/pkg/corpus"
	"github.com/searchmill/serptopics/pkg/jobdb"
	"github.com/searchmill/serptopics/pkg/retrieve"
	"github.com/searchmill/serptopics/pkg/retry"
	"github.com/searchmill/serptopics/pkg/serp"
	"github.com/searchmill/serptopics/pkg/session"
)

func RunAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("workers") {
		config.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		config.JobTimeoutSec = c.Int("timeout")
	}
	if c.IsSet("api-first") {
		config.APIFirst = c.Bool("api-first")
	}

	request := &models.JobRequest{
		Keywords:   common.SplitKeywords(c.String("keywords")),
		PerKeyword: c.Int("per-keyword"),
		K:          c.Int("k"),
	}
	if err := request.Normalize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  serptopics run --keywords "standing desk,ergonomic chair" --per-keyword 10`)
		fmt.Fprintln(os.Stderr, `  serptopics run --keywords "standing desk" --per-keyword 10 --k 4`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: serptopics run --help")
		os.Exit(1)
	}

	database, err := jobdb.Open(config.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	store, err := artifacts.NewStore(config.DebugDir)
	if err != nil {
		logger.Error("failed to initialize diagnostics store", "error", err)
		os.Exit(2)
	}

	seed := common.JobSeed(request.Keywords, request.PerKeyword, request.K)

	chain, err := buildChain(config, seed, logger)
	if err != nil {
		logger.Error("failed to build backend chain", "error", err)
		os.Exit(2)
	}
	logger.Info("Backend chain built", "backends", chainNames(chain), "workers", config.Workers)

	policy := retry.NewPolicy(
		config.Retry.MaxAttempts,
		time.Duration(config.Retry.BaseDelayMS)*time.Millisecond,
		time.Duration(config.Retry.MaxDelayMS)*time.Millisecond,
		config.Retry.Jitter,
		seed,
	)
	orchestrator := retrieve.NewOrchestrator(chain, policy, store, logger)
	pool := retrieve.NewPool(config.Workers, orchestrator)

	jobID, err := database.InsertJob(len(request.Keywords), request.PerKeyword, request.K)
	if err != nil {
		logger.Error("failed to insert job", "error", err)
		os.Exit(2)
	}
	logger.Info("Job started", "job_id", jobID, "keywords", len(request.Keywords))

	ctx := context.Background()
	if config.JobTimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.JobTimeoutSec)*time.Second)
		defer cancel()
	}

	outcomes := pool.Run(ctx, request.Keywords, request.PerKeyword)

	corp := corpus.Build(outcomes)
	engine := cluster.NewEngine(seed)
	outcome := engine.Cluster(corp, request.K)

	result := assembleResult(request, outcomes, corp, outcome)

	persistOutcomes(database, jobID, outcomes, logger)

	sessionDir, err := session.EnsureDir(config.OutputDir, jobID, startTime)
	if err != nil {
		logger.Warn("Failed to create session directory", "error", err)
	} else {
		if err := session.WriteResultJSON(sessionDir, result); err != nil {
			logger.Warn("Failed to write result.json", "error", err)
		}
		if err := session.WriteClusteredCSV(sessionDir, result); err != nil {
			logger.Warn("Failed to write clustered.csv", "error", err)
		}
		info := session.Info{
			JobID:           jobID,
			Created:         startTime,
			KeywordCount:    len(request.Keywords),
			Success:         result.Meta.Counts.Succeeded,
			Failed:          result.Meta.Counts.Failed,
			K:               result.Meta.K,
			KeywordsPreview: session.KeywordsPreview(request.Keywords, 3),
		}
		if err := session.UpdateIndex(config.OutputDir, info); err != nil {
			logger.Warn("Failed to update sessions index", "error", err)
		}
	}

	if err := database.FinishJob(jobID, result.Meta.K, result.Meta.Silhouette,
		result.Meta.Counts.Succeeded, result.Meta.Counts.Failed, result.Meta.Counts.Records, sessionDir); err != nil {
		logger.Warn("Failed to finalize job record", "error", err)
	}

	logger.Info("Job finished", "job_id", jobID,
		"succeeded", result.Meta.Counts.Succeeded,
		"failed", result.Meta.Counts.Failed,
		"records", result.Meta.Counts.Records,
		"k", result.Meta.K,
		"elapsed_sec", time.Since(startTime).Seconds())

	outputData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to marshal job result", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(outputData))

	if result.Meta.Counts.Succeeded == 0 {
		os.Exit(2)
	}
	if result.Meta.Counts.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// buildChain assembles the ordered backend chain from config. Live leads
// by default; --api-first (or config) moves the API backends ahead of it.
func buildChain(config *models.Config, seed int64, logger *slog.Logger) ([]serp.Backend, error) {
	var live serp.Backend
	if config.Live.Enabled {
		l, err := serp.NewLive(config.Live, config.UserAgents(), config.ViewportPool(), seed, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build live backend: %w", err)
		}
		live = l
	}

	var apis []serp.Backend
	if config.SerpAPI.Key != "" {
		apis = append(apis, serp.NewSerpAPI(config.SerpAPI.Key))
	}
	if config.GoogleCSE.Key != "" && config.GoogleCSE.CX != "" {
		apis = append(apis, serp.NewGoogleCSE(config.GoogleCSE.Key, config.GoogleCSE.CX))
	}

	var chain []serp.Backend
	if config.APIFirst {
		chain = append(chain, apis...)
		if live != nil {
			chain = append(chain, live)
		}
	} else {
		if live != nil {
			chain = append(chain, live)
		}
		chain = append(chain, apis...)
	}

	if len(chain) == 0 {
		return nil, errors.New("no backends configured: enable live or provide API credentials")
	}
	return chain, nil
}

func chainNames(chain []serp.Backend) []string {
	names := make([]string, len(chain))
	for i, b := range chain {
		names[i] = b.Name()
	}
	return names
}

// assembleResult builds the outbound JobResult from retrieval outcomes
// and the clustering outcome. Results are in corpus index order, which is
// keyword-submission order with failed keywords skipped.
func assembleResult(request *models.JobRequest, outcomes []retrieve.KeywordOutcome, corp *corpus.Corpus, out *cluster.Outcome) *models.JobResult {
	counts := models.KeywordCounts{
		Keywords:   len(request.Keywords),
		PerKeyword: make(map[string]int, len(request.Keywords)),
	}
	for _, o := range outcomes {
		if o.Succeeded() {
			counts.Succeeded++
			counts.Records += len(o.Records)
		} else {
			counts.Failed++
		}
		counts.PerKeyword[o.Keyword] = len(o.Records)
	}

	results := make([]models.ClusteredRecord, len(corp.Records))
	for i, record := range corp.Records {
		cl := 0
		if i < len(out.Assignments) {
			cl = out.Assignments[i]
		}
		results[i] = models.ClusteredRecord{Record: record, Cluster: cl}
	}

	topTerms := make(map[int][]string, len(out.Summaries))
	exemplars := make(map[int][]models.Exemplar, len(out.Summaries))
	for _, summary := range out.Summaries {
		topTerms[summary.ID] = summary.TopTerms
		exemplars[summary.ID] = summary.Exemplars
	}

	return &models.JobResult{
		Meta: models.Meta{
			K:          out.K,
			Silhouette: out.Silhouette,
			Counts:     counts,
			Note:       out.Note,
		},
		TopTerms:  topTerms,
		Exemplars: exemplars,
		Results:   results,
	}
}

// persistOutcomes records per-keyword outcomes and their attempt traces.
// Persistence failures are logged, never fatal: the job result already
// exists in memory and still reaches stdout and the session directory.
func persistOutcomes(database *jobdb.DB, jobID int64, outcomes []retrieve.KeywordOutcome, logger *slog.Logger) {
	for _, o := range outcomes {
		status := "success"
		source := ""
		if o.Succeeded() {
			if len(o.Records) > 0 {
				source = o.Records[0].Source
			}
		} else if errors.Is(o.Err, context.DeadlineExceeded) || errors.Is(o.Err, context.Canceled) {
			status = "timeout"
		} else {
			status = "exhausted"
		}

		jobKeywordID, err := database.InsertJobKeyword(jobID, o.Keyword, status, len(o.Records), source)
		if err != nil {
			logger.Warn("Failed to insert job keyword", "keyword", o.Keyword, "error", err)
			continue
		}
		for _, att := range o.Attempts {
			if _, err := database.InsertAttempt(jobKeywordID, att.Backend, att.Outcome, att.Reason, att.Elapsed, att.ArtifactPath); err != nil {
				logger.Warn("Failed to insert attempt", "keyword", o.Keyword, "backend", att.Backend, "error", err)
			}
		}
	}
}
