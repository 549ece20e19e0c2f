package cli

import (
	"context"
	"fmt"
	"os"

	"loupe/internal/config"
	"loupe/internal/output"
	"loupe/internal/prompt"
	"loupe/internal/service"

	"github.com/spf13/cobra"
)

var (
	flagRepo         string
	flagRange        string
	flagPromptFile   string
	flagTitle        string
	flagAuthor       string
	flagSourceBranch string
	flagTargetBranch string
	flagDescription  string
	flagFormat       string
	flagOut          string
	flagExportEnv    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a code review through the configured provider",
	Long: "Run a code review. Local providers (claude, ollama) require --repo; " +
		"hosted providers extract a diff from --repo when one is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync() //nolint:errcheck

		store := config.NewFileStore(flagConfig)
		svc, err := service.New(store, service.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		if flagExportEnv {
			config.ExportEnv(svc.Config())
		}

		req := service.Request{
			RepoPath:    flagRepo,
			CommitRange: flagRange,
		}

		if flagPromptFile != "" {
			data, err := os.ReadFile(flagPromptFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading prompt file: %v\n", err)
				exitCode = ExitUsageError
				return nil
			}
			req.CustomPrompt = string(data)
		}

		if subj := buildSubject(); subj != nil {
			req.Subject = subj
		}

		outcome := svc.Review(context.Background(), req)

		if err := output.WriteOutcome(outcome, flagFormat, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if outcome.Failed() {
			exitCode = ExitReviewFailed
		}
		return nil
	},
}

// buildSubject returns a Subject when any subject flag was supplied, nil
// otherwise. A nil subject lets prompt-less providers use their own default
// behavior.
func buildSubject() *prompt.Subject {
	if flagTitle == "" && flagAuthor == "" && flagSourceBranch == "" &&
		flagTargetBranch == "" && flagDescription == "" {
		return nil
	}
	return &prompt.Subject{
		Title:        flagTitle,
		Author:       flagAuthor,
		SourceBranch: flagSourceBranch,
		TargetBranch: flagTargetBranch,
		Description:  flagDescription,
	}
}

func init() {
	reviewCmd.Flags().StringVar(&flagRepo, "repo", "", "Local repository path")
	reviewCmd.Flags().StringVar(&flagRange, "range", "", "Git commit range (e.g. main..feature)")
	reviewCmd.Flags().StringVar(&flagPromptFile, "prompt-file", "", "File with a custom prompt (overrides template assembly)")
	reviewCmd.Flags().StringVar(&flagTitle, "title", "", "Merge request title")
	reviewCmd.Flags().StringVar(&flagAuthor, "author", "", "Merge request author")
	reviewCmd.Flags().StringVar(&flagSourceBranch, "source-branch", "", "Source branch")
	reviewCmd.Flags().StringVar(&flagTargetBranch, "target-branch", "", "Target branch")
	reviewCmd.Flags().StringVar(&flagDescription, "description", "", "Merge request description")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, markdown)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	reviewCmd.Flags().BoolVar(&flagExportEnv, "export-env", false, "Export provider credentials as environment variables for SDK compatibility")
}
