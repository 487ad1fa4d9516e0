// Copyright 2026 Repovault, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/repovault/repovault/internal/backup"
	"github.com/repovault/repovault/internal/config"
	vaulterrors "github.com/repovault/repovault/internal/errors"
	"github.com/repovault/repovault/internal/github"
	"github.com/repovault/repovault/internal/log"
	"github.com/repovault/repovault/internal/report"
	"github.com/repovault/repovault/internal/state"
)

// backupOptions collects every flag of the backup command.
type backupOptions struct {
	dest       string
	token      string
	tokenFile  string
	configPath string
	logLevel   string
}

func newBackupCommand() *cobra.Command {
	opts := &backupOptions{}

	cmd := &cobra.Command{
		Use:   "backup <owner>/<repo>",
		Short: "Back up a repository's issues and pull requests",
		Long: `Back up the issues and pull requests of a GitHub repository to the
destination directory, one JSON file per entry.

The repository must be specified in the format: <owner>/<repo>
For example: golang/go, kubernetes/kubernetes

The first run fetches the complete history. Later runs read the state
file left in the destination and only fetch entries updated since, plus
any entries the previous run failed to load.

Authentication is required via GitHub token:
  - Use --token to provide the token directly
  - Use --token-file to read it from a file
  - Or set the GITHUB_TOKEN environment variable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.dest, "dest", "", "Destination directory (default from config, else current directory)")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&opts.tokenFile, "token-file", "", "File containing the GitHub token")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: standard locations)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	return cmd
}

// runBackup executes one backup run end to end.
func runBackup(ctx context.Context, repoArg string, opts *backupOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	log.Init(cfg.Log.Level)
	logger := log.Get()

	owner, repo, err := parseRepository(repoArg)
	if err != nil {
		return err
	}

	dest := opts.dest
	if dest == "" {
		dest = cfg.Defaults.Destination
	}

	token, err := resolveToken(opts.token, opts.tokenFile)
	if err != nil {
		return err
	}

	if err := createDirs(dest); err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrCreateDirs, err)
	}

	// The tracker's start time becomes the next state's watermark, so
	// entries changed while this run is in flight are fetched again.
	tracker := report.New()
	prior := state.Load(dest)
	if prior != nil {
		logger.Info().Time("last_backup", prior.LastBackup).Msg("resuming from previous backup")
	} else {
		logger.Info().Msg("no previous backup state, starting full backup")
	}

	client, err := github.NewRESTClient(ctx, token, cfg.GitHub.APIEndpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrClientInit, err)
	}

	written, res, err := runPipeline(ctx, client, owner, repo, cfg.Defaults.PageSize, dest, prior)
	saveReport(tracker, client, owner, repo, prior, written, res, dest, cfg.Defaults.PageSize)
	if err != nil {
		return err
	}

	// The watermark only moves once something was actually persisted.
	// An empty run keeps the previous state intact.
	if written > 0 {
		next := &state.BackupState{
			Version:      state.CurrentVersion,
			LastBackup:   tracker.StartTime(),
			FailedIssues: res.FailedIssues,
			FailedPulls:  res.FailedPulls,
		}
		if err := state.Save(next, dest); err != nil {
			return fmt.Errorf("%w: %v", vaulterrors.ErrStateWrite, err)
		}
	}

	logger.Info().Int("written", written).Msg("backup finished")

	if res.Failed() {
		logger.Warn().
			Ints("issues", res.FailedIssues).
			Ints("pulls", res.FailedPulls).
			Msg("some entries could not be loaded and will be retried next run")
		return fmt.Errorf("%w: %d issues, %d pull requests",
			vaulterrors.ErrPartialFetch, len(res.FailedIssues), len(res.FailedPulls))
	}
	return nil
}

// runPipeline wires the fetcher and writer together: the fetcher
// produces records in a goroutine, the writer drains them here. A
// writer failure closes stop so the fetcher winds down instead of
// blocking on a channel nobody reads.
func runPipeline(ctx context.Context, client github.Client, owner, repo string, pageSize int, dest string, prior *state.BackupState) (int, *backup.Result, error) {
	records := make(chan *backup.Record, backup.RecordBuffer)
	stop := make(chan struct{})

	var (
		res      *backup.Result
		fetchErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(records)
		defer func() {
			if r := recover(); r != nil {
				fetchErr = fmt.Errorf("%w: fetcher panicked: %v", vaulterrors.ErrInternal, r)
			}
		}()
		res, fetchErr = backup.NewFetcher(client, owner, repo, pageSize).Run(ctx, prior, records, stop)
	}()

	written, writeErr := backup.NewWriter(dest).Run(records)
	if writeErr != nil {
		close(stop)
		for range records {
			// Discard whatever the fetcher had in flight.
		}
	}
	<-done

	if writeErr != nil {
		return written, nil, writeErr
	}
	if fetchErr != nil {
		return written, nil, fetchErr
	}
	return written, res, nil
}

// saveReport writes the run summary. The report is informational, so a
// failure only warns and never changes the run's outcome.
func saveReport(tracker *report.Tracker, client *github.RESTClient, owner, repo string, prior *state.BackupState, written int, res *backup.Result, dest string, pageSize int) {
	var since *time.Time
	if prior != nil {
		t := prior.LastBackup
		since = &t
	}
	results := report.RunResults{
		RecordsWritten: written,
		APICalls:       client.APICalls(),
	}
	if res != nil {
		results.FailedIssues = len(res.FailedIssues)
		results.FailedPulls = len(res.FailedPulls)
	}

	r := tracker.Generate(version, report.RunParams{
		Owner:      owner,
		Repository: repo,
		Since:      since,
		PageSize:   pageSize,
	}, prior != nil, results)

	if err := report.Save(r, dest); err != nil {
		log.Get().Warn().Err(err).Msg("could not write run report")
	}
}

// createDirs prepares the destination layout so the writer never has
// to create directories mid-run.
func createDirs(dest string) error {
	for _, dir := range []string{
		filepath.Join(dest, backup.IssuesDir),
		filepath.Join(dest, backup.PullsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// parseRepository parses an owner/repo string into its components.
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// resolveToken returns the GitHub token from the flag, the token file,
// or the GITHUB_TOKEN environment variable, in that order.
func resolveToken(flagToken, tokenFile string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", vaulterrors.ErrMissingToken, tokenFile, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("%w: %s is empty", vaulterrors.ErrMissingToken, tokenFile)
		}
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: set GITHUB_TOKEN or use --token", vaulterrors.ErrMissingToken)
}

// mapErrorToExitCode maps internal errors to the process exit code.
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, vaulterrors.ErrCreateDirs):
		return 1
	case errors.Is(err, vaulterrors.ErrClientInit):
		return 2
	case errors.Is(err, vaulterrors.ErrListingFetch), errors.Is(err, vaulterrors.ErrPartialFetch):
		return 3
	case errors.Is(err, vaulterrors.ErrMissingToken):
		return 4
	case errors.Is(err, vaulterrors.ErrWriteFailed), errors.Is(err, vaulterrors.ErrStateWrite):
		return 6
	default:
		return 5
	}
}
