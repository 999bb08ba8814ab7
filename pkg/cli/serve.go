package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/pkg/config"
	"github.com/specgate/specgate/pkg/gate"
	"github.com/specgate/specgate/pkg/logging"
	"github.com/specgate/specgate/pkg/swagger"
	httpresp "github.com/specgate/specgate/pkg/httputil"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validating reverse proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveConfigPath)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "specgate.yaml", "Config file path")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Upstream == "" {
		return fmt.Errorf("upstream is required to serve")
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	handler, err := buildHandler(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("specgate listening", "addr", cfg.Listen, "upstream", cfg.Upstream)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = format
	return logging.New(logCfg), nil
}

// buildHandler assembles the proxy: access log wrapping the gate wrapping
// the upstream reverse proxy.
func buildHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	doc, err := loadDocument(cfg.Spec)
	if err != nil {
		return nil, err
	}

	g, err := gate.New(doc, gateConfig(cfg, logger))
	if err != nil {
		return nil, err
	}

	proxy, err := newUpstreamProxy(cfg.Upstream)
	if err != nil {
		return nil, err
	}

	return accessLog(logger)(g.Wrap(proxy)), nil
}

func loadDocument(spec config.SpecConfig) (*swagger.Document, error) {
	opts := swagger.Options{
		ValidateSpec:        spec.ValidateEnabled(),
		BasePath:            spec.BasePath,
		DefaultTypeToObject: spec.DefaultTypeToObject,
		DereferenceRefs:     spec.DereferenceRefs,
		AllowExternalRefs:   spec.AllowExternalRefs,
		Formats:             spec.Formats,
	}

	switch {
	case spec.File != "":
		return swagger.LoadFile(spec.File, opts)
	case spec.URL != "":
		return swagger.LoadURL(spec.URL, opts)
	default:
		return swagger.Load([]byte(spec.Inline), opts)
	}
}

func gateConfig(cfg *config.Config, logger *slog.Logger) gate.Config {
	gcfg := gate.DefaultConfig()
	gcfg.ValidateRequests = cfg.Validation.RequestsEnabled()
	gcfg.ValidateResponses = cfg.Validation.ResponsesEnabled()
	gcfg.IgnoreUndefinedRoutes = cfg.Validation.IgnoreUndefinedRoutes
	if cfg.Validation.MaxBodyBytes > 0 {
		gcfg.MaxBodyBytes = cfg.Validation.MaxBodyBytes
	}
	gcfg.ServeSchema = cfg.Serve.SchemaEnabled()
	if cfg.Serve.SchemaSuburl != "" {
		gcfg.SchemaSuburl = cfg.Serve.SchemaSuburl
	}
	gcfg.ServeUI = cfg.Serve.UI
	if cfg.Serve.UISuburl != "" {
		gcfg.UISuburl = cfg.Serve.UISuburl
	}
	gcfg.UIValidatorURL = cfg.Serve.UIValidatorURL
	gcfg.MountPrefix = cfg.Serve.MountPrefix
	gcfg.Logger = logger
	return gcfg
}

// newUpstreamProxy forwards requests to the upstream base URL. Transport
// failures answer 502 in the same error payload shape the gate uses.
func newUpstreamProxy(upstream string) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", upstream, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.FromContext(r.Context()).Error("upstream request failed", "error", err)
		httpresp.WriteError(w, http.StatusBadGateway, "upstream request failed")
	}
	return proxy, nil
}
