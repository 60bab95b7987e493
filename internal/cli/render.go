package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bokehbridge/bokehbridge/internal/assets"
	"github.com/bokehbridge/bokehbridge/internal/config"
	"github.com/bokehbridge/bokehbridge/internal/host"
	"github.com/bokehbridge/bokehbridge/internal/output"
	"github.com/bokehbridge/bokehbridge/internal/page"
	"github.com/bokehbridge/bokehbridge/internal/render"
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

var (
	renderConfigFile string
	renderTheme      string
	renderFit        bool
	renderWidth      float64
	renderKey        string
	renderTitle      string
	renderOut        string
	renderVerify     bool
	renderNoColor    bool

	renderBackground   string
	renderSecondaryBg  string
	renderTextColor    string
	renderFont         string
	renderPrimaryColor string
)

var renderCmd = &cobra.Command{
	Use:   "render [chart definition file]",
	Short: "Render a chart definition into a standalone HTML page",
	Long: `Render reads a serialized Bokeh chart definition (the json_item envelope
produced by the Python wrapper) and generates a self-contained HTML page
that loads the pinned BokehJS release and embeds the chart with the
selected theme.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderConfigFile, "config", "c", "", "Config file (YAML)")
	renderCmd.Flags().StringVarP(&renderTheme, "theme", "t", theme.Sentinel, "Theme: a Bokeh builtin name or 'streamlit' for host tokens")
	renderCmd.Flags().BoolVar(&renderFit, "fit", false, "Stretch the chart to the container width")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 700, "Container width used with --fit")
	renderCmd.Flags().StringVarP(&renderKey, "key", "k", "", "Stable widget key (generated when empty)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "bokehbridge", "Page title")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (stdout when empty)")
	renderCmd.Flags().BoolVar(&renderVerify, "verify", false, "Verify asset URLs are reachable before referencing them")
	renderCmd.Flags().BoolVar(&renderNoColor, "no-color", false, "Disable colored output")

	renderCmd.Flags().StringVar(&renderBackground, "bg", "#FFFFFF", "Host background color token")
	renderCmd.Flags().StringVar(&renderSecondaryBg, "secondary-bg", "#F0F2F6", "Host secondary background color token")
	renderCmd.Flags().StringVar(&renderTextColor, "text-color", "#31333F", "Host text color token")
	renderCmd.Flags().StringVar(&renderFont, "font", `"Source Sans Pro", sans-serif`, "Host font family token")
	renderCmd.Flags().StringVar(&renderPrimaryColor, "accent", "#FF4B4B", "Host accent color token")
}

// pageOptions collects everything a single page build needs beyond the
// figure itself.
type pageOptions struct {
	themeName string
	fit       bool
	width     float64
	key       string
	title     string
	tokens    theme.HostTokens
	checker   page.URLChecker
	notifier  host.Notifier
	recorder  *render.LatencyRecorder
	extra     []string // extra inline scripts appended to the page
}

// buildChartPage runs the full pipeline for one figure and returns the page.
func buildChartPage(ctx context.Context, cfg *config.Config, figure string, opts pageOptions) (string, error) {
	key := opts.key
	if key == "" {
		key = host.NewKey()
	}

	builderOpts := []page.BuilderOption{page.WithTitle(opts.title)}
	if opts.checker != nil {
		builderOpts = append(builderOpts, page.WithChecker(opts.checker))
	}
	builder := page.NewBuilder(builderOpts...)

	loader := assets.NewLoader(builder, assets.SetFromConfig(cfg),
		assets.WithTimeout(cfg.Timeouts.AssetLoad))

	ctrlOpts := []render.ControllerOption{
		render.WithDefaultDimensions(cfg.Defaults.Width, cfg.Defaults.Height),
	}
	if opts.notifier != nil {
		ctrlOpts = append(ctrlOpts, render.WithNotifier(opts.notifier))
	}
	if opts.recorder != nil {
		ctrlOpts = append(ctrlOpts, render.WithLatencyRecorder(opts.recorder))
	}
	controller := render.NewController(loader, builder, ctrlOpts...)

	root := builder.Root(key, opts.width)

	_, err := controller.Render(ctx, host.RenderArgs{
		Figure:            figure,
		UseContainerWidth: opts.fit,
		Theme:             opts.themeName,
		Key:               key,
		Root:              root,
		Tokens:            opts.tokens,
	})
	if err != nil {
		return "", err
	}

	for _, script := range opts.extra {
		builder.AddScript(script)
	}

	return builder.HTML(), nil
}

func loadRenderConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func flagTokens() theme.HostTokens {
	return theme.HostTokens{
		BackgroundColor:          renderBackground,
		SecondaryBackgroundColor: renderSecondaryBg,
		TextColor:                renderTextColor,
		Font:                     renderFont,
		PrimaryColor:             renderPrimaryColor,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	scheme := output.SchemeFor(renderNoColor)

	cfg, err := loadRenderConfig(renderConfigFile)
	if err != nil {
		return err
	}

	figure, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading chart definition: %w", err)
	}

	opts := pageOptions{
		themeName: renderTheme,
		fit:       renderFit,
		width:     renderWidth,
		key:       renderKey,
		title:     renderTitle,
		tokens:    flagTokens(),
	}
	if renderVerify {
		opts.checker = assets.NewVerifier(assets.WithVerifyTimeout(cfg.Timeouts.AssetLoad))
	}

	html, err := buildChartPage(cmd.Context(), cfg, string(figure), opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", output.ErrorIcon(renderNoColor),
			scheme.Error.Sprintf("render failed: %v", err))
		return err
	}

	if renderOut == "" {
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	}

	if err := os.WriteFile(renderOut, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Rendered %s to %s\n",
		output.SuccessIcon(renderNoColor),
		scheme.Highlight.Sprint(args[0]),
		scheme.URL.Sprint(renderOut))
	return nil
}
