package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lesleslie/recast/internal/applier"
	"github.com/lesleslie/recast/transform"
)

var (
	dryRun              bool
	confidenceThreshold float64
)

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Rewrite sources in place",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := transform.New(logger, cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize transform engine", zap.Error(err))
		}

		specs := collectSpecs(ctx, engine, args)
		app := applier.New(dryRun, confidenceThreshold)
		if err := app.Apply(specs); err != nil {
			logger.Error("Error applying rewrites", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show rewrites without applying them)")
	applyCmd.Flags().Float64Var(&confidenceThreshold, "confidence", 0.75, "Confidence threshold for rewriting (0.0 to 1.0)")
}
