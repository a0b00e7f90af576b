package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craftgear/extract-model-info-json/internal/fetch"
	"github.com/craftgear/extract-model-info-json/internal/util"
)

var (
	fetchDest string
	feedURLs  []string
)

// fetchCmd downloads archives linked from HTML index pages.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download zip archives linked from HTML index pages",
	Long: `Fetches each --feed-url index page, collects every linked zip archive and
downloads the missing ones into --dest. Already-downloaded archives are left
untouched. Faulty feeds or archives are skipped and reported at the end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := getLogger()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if len(feedURLs) == 0 {
			return fmt.Errorf("at least one --feed-url is required")
		}

		client := util.DefaultHTTPClient()
		urls, discoveryErr := fetch.DiscoverArchiveURLs(ctx, client, feedURLs, logger)
		if len(urls) == 0 {
			if discoveryErr != nil {
				return discoveryErr
			}
			fmt.Println("no archives discovered")
			return nil
		}

		downloaded, downloadErr := fetch.DownloadAll(ctx, client, urls, fetchDest, logger)
		fmt.Printf("discovered: %d downloaded: %d\n", len(urls), downloaded)

		if err := errors.Join(discoveryErr, downloadErr); err != nil {
			return fmt.Errorf("fetch finished with errors: %w", err)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "./archives", "Directory to download archives into")
	fetchCmd.Flags().StringSliceVar(&feedURLs, "feed-url", nil, "Feed index URLs to discover archives from (can specify multiple)")
}
