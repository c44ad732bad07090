package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdfwatermark/pkg/compose"
	"github.com/matzehuels/pdfwatermark/pkg/files"
	"github.com/matzehuels/pdfwatermark/pkg/fonts"
	"github.com/matzehuels/pdfwatermark/pkg/pipeline"
	"github.com/matzehuels/pdfwatermark/pkg/render"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// placementOpts is implemented by the flags of each placement mode.
type placementOpts interface {
	register(cmd *cobra.Command)
	applyConfig(cfg *watermark.Config, changed func(string) bool)
	placement() (watermark.Placement, error)
}

// gridCommand creates the grid command.
func (c *CLI) gridCommand() *cobra.Command {
	common := defaultCommonOpts()
	var grid gridOpts

	cmd := &cobra.Command{
		Use:   "grid INPUT WATERMARK",
		Short: "Tile a watermark over every page",
		Long: `Tile a watermark over every page of INPUT.

The page is divided into --horizontal-boxes columns and --vertical-boxes
rows and one stamp is drawn in the center of every cell. INPUT is a PDF
file or a directory searched recursively for PDF files. WATERMARK is the
path of a .png, .jpg or .jpeg image, or else the text to stamp.`,
		Example: `  pdfwatermark grid report.pdf "CONFIDENTIAL"
  pdfwatermark grid scans/ logo.png --opacity 0.3 -s stamped/
  pdfwatermark grid doc.pdf "DRAFT" --horizontal-boxes 2 --vertical-boxes 3 --margin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatermark(cmd, &common, &grid, args[0], args[1])
		},
	}
	common.register(cmd)
	grid.register(cmd)
	return cmd
}

// insertCommand creates the insert command.
func (c *CLI) insertCommand() *cobra.Command {
	common := defaultCommonOpts()
	var insert insertOpts

	cmd := &cobra.Command{
		Use:   "insert INPUT WATERMARK",
		Short: "Place a single watermark on every page",
		Long: `Place a single watermark on every page of INPUT.

--x and --y locate the anchor as fractions of the page width and height,
measured from the bottom-left corner. --horizontal-alignment decides
whether the stamp starts at, ends at or is centered on the anchor.`,
		Example: `  pdfwatermark insert report.pdf "APPROVED" --x 0.9 --y 0.1 --horizontal-alignment right
  pdfwatermark insert invoices/ signature.png --angle 0 --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatermark(cmd, &common, &insert, args[0], args[1])
		},
	}
	common.register(cmd)
	insert.register(cmd)
	return cmd
}

// runWatermark validates every option, then watermarks the resolved files
// and reports the outcomes. Any error before the batch starts is a
// configuration error and no file is touched.
func (c *CLI) runWatermark(cmd *cobra.Command, common *commonOpts, p placementOpts, input, raw string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	if cfg != nil {
		changed := cmd.Flags().Changed
		common.applyConfig(cfg, changed)
		p.applyConfig(cfg, changed)
	}

	plan, err := files.Resolve(input, common.save)
	if err != nil {
		return err
	}
	placement, err := p.placement()
	if err != nil {
		return err
	}
	drawing, err := common.drawing(raw)
	if err != nil {
		return err
	}
	logger.Debug("options", "mode", placement.Mode(), "watermark", drawing.Content.Kind(),
		"raster", drawing.Raster(), "files", len(plan.Tasks))

	registry, err := fonts.NewRegistry(common.customFonts, logger)
	if err != nil {
		return err
	}
	renderer, err := render.New(registry, drawing, placement)
	if err != nil {
		return err
	}

	if len(plan.Tasks) == 0 {
		printWarning(c.Out, "no PDF files found in %s", input)
		return nil
	}

	opts := pipeline.Options{
		Tasks:   plan.Tasks,
		Dirs:    plan.Dirs,
		DryRun:  common.dryRun,
		Workers: common.workers,
	}

	live := common.progress && isTerminal(c.Err)
	if common.progress && !live {
		logger.Debug("progress view disabled, stderr is not a terminal")
	}

	runLogger := logger
	if live {
		// Per-file log lines would tear the live view.
		runLogger = log.New(io.Discard)
	}
	runner := pipeline.NewRunner(compose.New(compose.NewPDFCPU(), renderer, runLogger), runLogger)

	var outcomes []pipeline.Outcome
	if live {
		outcomes, err = c.runWithProgress(ctx, runner, opts)
	} else {
		outcomes, err = runner.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	printReport(c.Out, outcomes, common.dryRun)
	s := pipeline.Summarize(outcomes)
	prog.done(summaryLine(s, common.dryRun))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.Failed > 0 {
		return ErrTasksFailed
	}
	return nil
}
