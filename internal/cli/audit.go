package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/auditmd/auditmd/internal/audit"
	"github.com/auditmd/auditmd/internal/cache"
	"github.com/auditmd/auditmd/internal/checklist"
	"github.com/auditmd/auditmd/internal/config"
	"github.com/auditmd/auditmd/internal/export"
	"github.com/auditmd/auditmd/internal/logging"
	"github.com/auditmd/auditmd/internal/providers"
	"github.com/auditmd/auditmd/internal/record"
	"github.com/auditmd/auditmd/internal/session"
	"github.com/auditmd/auditmd/internal/source"
)

// Shared audit flags
var (
	flagConfig      string
	flagChecklist   string
	flagInclude     string
	flagExclude     string
	flagSince       string
	flagProvider    string
	flagModel       string
	flagFormat      string
	flagOut         string
	flagFailOn      string
	flagMaxFindings int
	flagMaxBundle   int
	flagInteractive bool
	flagSessionFile string
	flagNoRedact    bool
	flagNoCache     bool
)

func addAuditFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file path")
	cmd.Flags().StringVar(&flagChecklist, "checklist", "", "Checklist name (accessibility, security, architecture) or file path")
	cmd.Flags().StringVar(&flagInclude, "include", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagSince, "since", "", "Audit only files changed since this git ref")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, Minor, Moderate, Serious, Critical)")
	cmd.Flags().IntVar(&flagMaxFindings, "max-findings", 0, "Maximum number of records")
	cmd.Flags().IntVar(&flagMaxBundle, "max-bundle-bytes", 0, "Maximum total bundle size in bytes")
	cmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Review each record before export")
	cmd.Flags().StringVar(&flagSessionFile, "session-file", "", "Session file path for interactive review")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagChecklist != "" {
		m["checklist"] = flagChecklist
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagMaxFindings > 0 {
		m["maxFindings"] = fmt.Sprintf("%d", flagMaxFindings)
	}
	if flagMaxBundle > 0 {
		m["maxBundleBytes"] = fmt.Sprintf("%d", flagMaxBundle)
	}
	if flagInclude != "" {
		m["include"] = flagInclude
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Audit a codebase against a checklist",
	Long:  "Audit collects source files under path (default: current directory), runs the selected checklist through an LLM provider, validates the returned issue records, and exports a report.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			return err
		}

		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		runAudit(target, cfg)
		return nil
	},
}

func runAudit(target string, cfg config.Config) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}
	defer func() { _ = logger.Sync() }()

	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	cl, err := checklist.Load(cfg.Checklist)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	collectStart := time.Now()
	bundle, err := source.Collect(target, source.Options{
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		MaxFileBytes:   cfg.MaxFileBytes,
		MaxBundleBytes: cfg.MaxBundleBytes,
		SinceRef:       flagSince,
		RedactSecrets:  cfg.Privacy.RedactSecrets,
		RedactPaths:    cfg.Privacy.RedactPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	collectMs := time.Since(collectStart).Milliseconds()

	logger.Info("collected bundle",
		zap.Int("files", len(bundle.Files)),
		zap.Int("bytes", bundle.Bytes),
		zap.Bool("truncated", bundle.Truncated))

	ctx := context.Background()

	provider, err := providers.New(ctx, cfg.Provider, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	responseCache, err := cache.New(cfg.Cache.Enabled && !flagNoCache, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	report, err := audit.Run(ctx, bundle, audit.Params{
		Provider:    provider,
		Model:       cfg.Model,
		Checklist:   cl,
		Cache:       responseCache,
		MaxFindings: cfg.MaxFindings,
		FailOn:      cfg.FailOn,
		Logger:      logger,
	})
	if err != nil {
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	report.Timing.CollectMs = collectMs
	report.Timing.TotalMs += collectMs

	if flagInteractive {
		report = reviewInteractively(report, target)
		if report == nil {
			return
		}
	}

	finishReport(report, cfg)
}

// reviewInteractively runs the approval loop. A nil return means the
// session was suspended and the draft saved for later resume.
func reviewInteractively(report *record.Report, target string) *record.Report {
	draft := session.NewDraft(report)
	sessionPath := flagSessionFile
	if sessionPath == "" {
		sessionPath = session.DefaultPath(target)
	}

	reviewer := session.NewReviewer(os.Stdin, os.Stderr)
	quit, err := reviewer.Run(draft)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}

	if quit && draft.Pending() > 0 {
		if err := draft.Save(sessionPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving session: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stderr, "Session saved to %s (%d records pending). Resume with: auditmd review %s\n",
			sessionPath, draft.Pending(), sessionPath)
		return nil
	}

	// Completed: drop any stale session file from earlier runs.
	_ = os.Remove(sessionPath)
	return draft.Freeze()
}

// finishReport exports the report and sets the exit code from the
// fail-on threshold.
func finishReport(report *record.Report, cfg config.Config) {
	if err := export.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if cfg.FailOn != "none" && cfg.FailOn != "" {
		for _, r := range report.Records {
			if record.MeetsThreshold(r.Severity, cfg.FailOn) {
				exitCode = ExitFindings
				return
			}
		}
	}
}

func init() {
	addAuditFlags(auditCmd)
}
