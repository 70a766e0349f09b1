package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/services"
)

var (
	verbose bool
	logger  *zap.Logger

	profile models.ProfileInput
	eli5    bool
)

var rootCmd = &cobra.Command{
	Use:   "insurbuddy",
	Short: "InsurBuddy coverage calculator and assistant replies",
	Long: `insurbuddy runs the needs-analyzer calculation and the assistant's
keyword replies from the command line, without starting the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a coverage recommendation",
	Example: `  insurbuddy quote --age 30 --income 1000000
  insurbuddy quote --age 45 --dependents 2 --income 2400000 --pre-existing --existing-amount 5000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile.HasExistingCoverage = cmd.Flags().Changed("existing-amount") || profile.HasExistingCoverage
		logger.Debug("computing quote", zap.Any("profile", profile))
		return writeQuote(cmd.OutOrStdout(), profile, eli5)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Print the assistant's reply to a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		responder, err := services.NewDefaultResponder()
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), responder.SelectResponse(text))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	f := quoteCmd.Flags()
	f.IntVar(&profile.Age, "age", 30, "age in years (18-80)")
	f.IntVar(&profile.Dependents, "dependents", 0, "number of dependents (4 means 4+)")
	f.IntVar(&profile.AnnualIncome, "income", 1_000_000, "annual income in rupees")
	f.BoolVar(&profile.PreExistingConditions, "pre-existing", false, "has pre-existing medical conditions")
	f.BoolVar(&profile.HasExistingCoverage, "existing", false, "already holds life/health cover")
	f.IntVar(&profile.ExistingCoverageAmount, "existing-amount", 0, "existing cover amount in rupees (implies --existing)")
	f.BoolVar(&eli5, "eli5", false, "explain like I'm 5")

	rootCmd.AddCommand(quoteCmd, askCmd)
}

func writeQuote(w io.Writer, p models.ProfileInput, eli5 bool) error {
	result := services.ComputeCoverage(p)
	explanation := services.ExplainCoverage(p, result)

	fmt.Fprintf(w, "Recommended coverage: %s\n", services.FormatRupees(result.FinalCoverage))
	fmt.Fprintf(w, "Estimated monthly premium: %s\n\n", services.FormatRupees(result.MonthlyPremium))

	lines := explanation.Standard
	if eli5 {
		lines = explanation.ELI5
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
