// postgen runs the same pipeline as the API server for a single video
// URL and prints the post bundle to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/victormacedov/social-media-agent/internal/app"
	"github.com/victormacedov/social-media-agent/internal/config"
	"github.com/victormacedov/social-media-agent/internal/video"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "postgen [URL]",
		Short: "Generate social media posts from a YouTube video",
		Example: `  postgen "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  postgen "https://youtu.be/dQw4w9WgXcQ"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ref, err := video.ParseReference(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}

			application := app.New(cfg)

			transcript, err := application.Transcripts.Resolve(cmd.Context(), ref.ID)
			if err != nil {
				return err
			}

			bundle, err := application.Posts.GeneratePosts(cmd.Context(), transcript.Text)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(bundle)
		},
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
