package handlers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"letterly/internal/config"
	"letterly/internal/pipeline"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		tone       string
		model      string
		maxResults int
		outFile    string
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate a newsletter document for a topic",
		Long: `Generate a block-structured newsletter for a topic.

The pipeline searches the web, validates every candidate link and image,
drafts the newsletter with the selected model, and repairs the output so
all links and images reference validated sources. The result is printed
as JSON (or written to --out).

Examples:
  letterly generate "edge AI chips"
  letterly generate "climate tech" --tone friendly --model gpt --max-results 8
  letterly generate "rust web frameworks" --out newsletter.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], tone, model, maxResults, outFile)
		},
	}

	cmd.Flags().StringVar(&tone, "tone", "professional", "writing tone: professional, friendly, witty")
	cmd.Flags().StringVar(&model, "model", "gemini", "model selector: gemini or gpt")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "search results per query (default from config)")
	cmd.Flags().StringVar(&outFile, "out", "", "write the document JSON to this file instead of stdout")

	return cmd
}

func runGenerate(cmd *cobra.Command, topic, tone, model string, maxResults int, outFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if maxResults <= 0 {
		maxResults = cfg.Search.MaxResults
	}

	ctx := cmd.Context()
	pipe, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := pipe.Generate(ctx, pipeline.Request{
		Topic:      topic,
		Tone:       tone,
		Model:      model,
		MaxResults: maxResults,
	})
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, encoded, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFile, err)
		}
		fmt.Printf("Newsletter written to %s (%d blocks, %d sources)\n", outFile, len(doc.Blocks), len(doc.Sources))
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}
