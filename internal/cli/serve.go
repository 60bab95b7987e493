package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/bokehbridge/bokehbridge/internal/config"
	"github.com/bokehbridge/bokehbridge/internal/host"
	"github.com/bokehbridge/bokehbridge/internal/output"
	"github.com/bokehbridge/bokehbridge/internal/render"
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

var (
	serveConfigFile string
	serveAddr       string
	serveTheme      string
	serveFit        bool
	serveWidth      float64
)

var serveCmd = &cobra.Command{
	Use:   "serve [chart definition file]",
	Short: "Serve a chart definition from a local dev server",
	Long: `Serve hosts a generated chart page over HTTP. The definition file is
re-read on every request, so edits show up on refresh. The page
subscribes to a websocket channel over which render signals (ready,
height) are pushed, and /stats reports embed latency percentiles.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Config file (YAML)")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVarP(&serveTheme, "theme", "t", theme.Sentinel, "Theme: a Bokeh builtin name or 'streamlit' for host tokens")
	serveCmd.Flags().BoolVar(&serveFit, "fit", true, "Stretch the chart to the container width")
	serveCmd.Flags().Float64Var(&serveWidth, "width", 700, "Container width used with --fit")
}

// signalSubscriberScript is appended to served pages: it subscribes to the
// host signaling channel and resizes the widget region as height signals
// arrive.
const signalSubscriberScript = `(function() {
  const scheme = location.protocol === "https:" ? "wss://" : "ws://";
  const ws = new WebSocket(scheme + location.host + "/ws");
  ws.onmessage = function(ev) {
    const sig = JSON.parse(ev.data);
    if (sig.type === "height") {
      const widget = document.getElementById("widget-" + sig.key);
      if (widget) { widget.style.minHeight = sig.height + "px"; }
    }
  };
})();`

// newRouter wires the dev server endpoints. Split out so tests can drive it
// without binding a socket.
func newRouter(cfg *config.Config, figurePath string, notifier *host.WSNotifier, recorder *render.LatencyRecorder) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		figure, err := os.ReadFile(figurePath)
		if err != nil {
			c.String(http.StatusInternalServerError, "reading chart definition: %v", err)
			return
		}

		themeName := c.DefaultQuery("theme", serveTheme)

		opts := pageOptions{
			themeName: themeName,
			fit:       serveFit,
			width:     serveWidth,
			key:       "dev",
			title:     "bokehbridge dev server",
			tokens:    flagTokens(),
			notifier:  notifier,
			recorder:  recorder,
			extra:     []string{signalSubscriberScript},
		}

		html, err := buildChartPage(c.Request.Context(), cfg, string(figure), opts)
		if err != nil {
			c.String(http.StatusInternalServerError, "render failed: %v", err)
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})

	router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, recorder.Snapshot())
	})

	router.GET("/ws", func(c *gin.Context) {
		if err := notifier.Subscribe(c.Writer, c.Request); err != nil {
			c.String(http.StatusBadRequest, "subscribe failed: %v", err)
		}
	})

	return router
}

func runServe(cmd *cobra.Command, args []string) error {
	scheme := output.SchemeFor(false)

	cfg, err := loadRenderConfig(serveConfigFile)
	if err != nil {
		return err
	}

	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("chart definition: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	notifier := host.NewWSNotifier()
	defer notifier.Close()
	recorder := render.NewLatencyRecorder()

	router := newRouter(cfg, args[0], notifier, recorder)

	fmt.Fprintf(cmd.OutOrStdout(), "%s Serving %s on %s\n",
		output.SuccessIcon(false),
		scheme.Highlight.Sprint(args[0]),
		scheme.URL.Sprint("http://localhost"+addr))

	return router.Run(addr)
}
