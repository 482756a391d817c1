// The uploader publishes folders of photos as portfolio collections:
// each subdirectory of the photos dir becomes one collection, optimized
// and uploaded to object storage, then merged into the fallback data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gustafedn/atelier/internal/config"
	"github.com/gustafedn/atelier/internal/image"
	"github.com/gustafedn/atelier/internal/middleware"
	"github.com/gustafedn/atelier/internal/upload"
	"github.com/gustafedn/atelier/internal/uploader"
)

var (
	cfgFile      string
	photosDir    string
	fallbackPath string
)

var rootCmd = &cobra.Command{
	Use:   "uploader",
	Short: "Batch-publish photo collections to the portfolio",
	Long: `Scans the photos directory for per-collection folders, optimizes every
image, uploads them to the configured object storage bucket, and merges
the resulting collections into the static fallback data.

Example structure:

  photos-to-upload/
    street/
      01-city-lights.jpg
      02-rainy-day.jpg
    nature/
      forest.jpg`,
	RunE:          runUpload,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().StringVar(&photosDir, "photos-dir", "photos-to-upload", "directory of per-collection photo folders")
	rootCmd.Flags().StringVar(&fallbackPath, "fallback", "internal/collection/fallback.json", "fallback data file to merge into")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, errs := config.Load(cfgFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
		return fmt.Errorf("invalid configuration")
	}
	if cfg.R2BucketName == "" {
		return fmt.Errorf("object storage is not configured; set the R2_* environment variables")
	}

	logger := middleware.NewLogger(cfg.Env)

	store, err := upload.NewStore(upload.StoreConfig{
		Bucket:          cfg.R2BucketName,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		Endpoint:        cfg.R2Endpoint,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		return err
	}

	total, err := uploader.CountImages(photosDir)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("No images found. Add folders with images to", photosDir, "and run again.")
		return nil
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Uploading photos"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	up := uploader.New(store, image.NewProcessor(image.DefaultConfig()), logger)
	up.SetProgress(func(collection, file string) {
		bar.Describe(collection + "/" + file)
		_ = bar.Add(1)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collections, err := up.Run(ctx, photosDir)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	if len(collections) == 0 {
		fmt.Println("No new photos to upload.")
		return nil
	}

	merged, stats, err := uploader.MergeFallback(fallbackPath, collections)
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded %d collection(s), %d photo(s).\n", len(collections), total)
	fmt.Printf("Updated %s: %d added, %d replaced, %d collections total.\n",
		fallbackPath, stats.Added(), stats.Replaced(), len(merged))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
