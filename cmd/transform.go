package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lesleslie/recast/internal/report"
	"github.com/lesleslie/recast/internal/types"
	"github.com/lesleslie/recast/transform"
)

var (
	disablePatterns string
	jsonOutput      bool
	outPath         string
)

var transformCmd = &cobra.Command{
	Use:   "transform [paths...]",
	Short: "Analyze sources and print proposed rewrites",
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

		if disablePatterns != "" {
			for _, name := range strings.Split(disablePatterns, ",") {
				engine.DisablePattern(strings.TrimSpace(name))
			}
		}

		specs := collectSpecs(ctx, engine, args)
		printSpecs(specs, jsonOutput, outPath)
		fmt.Println(report.Summary(engine.Metrics()))

		if len(specs) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	transformCmd.Flags().StringVar(&disablePatterns, "disable", "", "Comma-separated list of patterns to disable")
	transformCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output proposals in JSON format")
	transformCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func collectSpecs(ctx context.Context, engine transform.Engine, paths []string) []*types.ChangeSpec {
	var all []*types.ChangeSpec
	for _, path := range paths {
		specs, err := transform.ProcessPath(ctx, logger, engine, path)
		if err != nil {
			logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		all = append(all, specs...)
	}
	return all
}

func printSpecs(specs []*types.ChangeSpec, isJson bool, jsonOutput string) {
	if !isJson {
		for _, spec := range specs {
			fmt.Println(report.Render(spec))
		}
		return
	}

	specsByFile := make(map[string][]*types.ChangeSpec)
	for _, spec := range specs {
		specsByFile[spec.FilePath] = append(specsByFile[spec.FilePath], spec)
	}
	d, err := json.Marshal(specsByFile)
	if err != nil {
		logger.Error("Error marshalling proposals to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
