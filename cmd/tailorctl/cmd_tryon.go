package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"tailorpreview/internal/bootstrap"
	"tailorpreview/internal/domain"
	"tailorpreview/internal/download"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/orchestrator"
	"tailorpreview/internal/service"
)

// tailorctl tryon --customer <id> --garment <id> [--garment <id>...] --out DIR
var tryonCmd = &cobra.Command{
	Use:   "tryon",
	Short: "Run a try-on job and write the results to a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		customerID, _ := cmd.Flags().GetString("customer")
		garmentIDs, _ := cmd.Flags().GetStringSlice("garment")
		outDir, _ := cmd.Flags().GetString("out")
		instructions, _ := cmd.Flags().GetString("instructions")
		usePro, _ := cmd.Flags().GetBool("pro")

		cfg, logger, err := boot("tryon")
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		stack, err := bootstrap.Build(ctx, cfg, logger, infra.NewMetrics())
		if err != nil {
			return err
		}
		defer stack.Close()

		job, err := resolveJob(ctx, stack, customerID, garmentIDs)
		if err != nil {
			return err
		}
		job.Instructions = instructions
		job.UsePro = usePro

		dir, err := download.NewDirDownloader(outDir, stack.Images)
		if err != nil {
			return err
		}
		orch := orchestrator.New(stack.Generator, gallerySink{stack.Gallery}, dir, orchestrator.Options{
			AfterFunc: func(time.Duration, func()) {},
			Logger:    logger,
		})
		out := cmd.ErrOrStderr()
		unsubscribe := orch.Subscribe(func(s domain.ProcessingState) {
			if s.Status == domain.JobProcessing {
				fmt.Fprintf(out, "[%d/%d] %s\n", s.CurrentStep, s.TotalSteps, s.CurrentGarment)
			}
		})
		defer unsubscribe()

		outcome, err := orch.RunJob(ctx, job)
		if err != nil {
			return err
		}
		for _, item := range outcome.Items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\n", item.ID, item.Garment.Title, item.Confidence)
		}
		fmt.Fprintf(out, "wrote %d file(s) to %s\n", len(outcome.Items), outDir)
		return nil
	},
}

func init() {
	tryonCmd.Flags().String("customer", "", "customer id")
	tryonCmd.Flags().StringSlice("garment", nil, "garment id, repeatable and kept in order")
	tryonCmd.Flags().String("out", ".", "output directory")
	tryonCmd.Flags().String("instructions", "", "extra styling instructions")
	tryonCmd.Flags().Bool("pro", false, "use the pro model")
	_ = tryonCmd.MarkFlagRequired("customer")
	_ = tryonCmd.MarkFlagRequired("garment")
}

type gallerySink struct {
	gallery *service.GalleryService
}

func (g gallerySink) SaveToGallery(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error) {
	return g.gallery.Save(ctx, result)
}

func resolveJob(ctx context.Context, stack *bootstrap.Stack, customerID string, garmentIDs []string) (domain.JobConfig, error) {
	customers, err := stack.Customers.List(ctx)
	if err != nil {
		return domain.JobConfig{}, err
	}
	idx := slices.IndexFunc(customers, func(c domain.Customer) bool { return c.ID == customerID })
	if idx < 0 {
		return domain.JobConfig{}, fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
	}
	job := domain.JobConfig{Customer: &customers[idx]}

	catalog, err := stack.Catalog.List(ctx, domain.FolderAll)
	if err != nil {
		return domain.JobConfig{}, err
	}
	for _, id := range garmentIDs {
		i := slices.IndexFunc(catalog, func(item domain.CatalogItem) bool { return item.ID == id })
		if i < 0 {
			return domain.JobConfig{}, fmt.Errorf("%w: garment %s", domain.ErrNotFound, id)
		}
		job.Garments = append(job.Garments, catalog[i])
	}
	return job, nil
}
