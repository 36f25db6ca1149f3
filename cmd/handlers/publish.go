package handlers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"letterly/internal/config"
	"letterly/internal/publish"
)

// NewPublishCmd creates the publish command
func NewPublishCmd() *cobra.Command {
	var (
		title    string
		htmlFile string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Send a rendered newsletter through the email provider",
		Long: `Send a rendered newsletter (title + HTML body) through the configured
email delivery provider. The provider's result is printed verbatim; a
delivery failure is reported, never retried.

Example:
  letterly publish --title "This week in AI" --html-file letter.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, title, htmlFile)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "email subject line (required)")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "file containing the newsletter HTML body (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("html-file")

	return cmd
}

func runPublish(cmd *cobra.Command, title, htmlFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	html, err := os.ReadFile(htmlFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", htmlFile, err)
	}

	client := publish.NewStibeeClient(cfg.Email)
	result := client.Publish(cmd.Context(), title, string(html))

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(encoded))

	if result.Status != publish.StatusSuccess {
		return fmt.Errorf("publish did not succeed: %s", result.Message)
	}
	return nil
}
