package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/chartwell/internal/app"
	"github.com/zjrosen/chartwell/internal/charts"
	"github.com/zjrosen/chartwell/internal/config"
	"github.com/zjrosen/chartwell/internal/dataset"
	"github.com/zjrosen/chartwell/internal/dimension"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/scheduler"
	"github.com/zjrosen/chartwell/internal/tracing"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// reply does not land in Bubble Tea's input loop.
	_ = lipgloss.HasDarkBackground()
}

// Local config file, checked before the user config.
const localConfigPath = ".chartwell/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "chartwell",
	Short:   "A terminal dashboard of bar and waterfall charts",
	Long:    `Chartwell renders one chart per dataset file in a directory and re-renders them as the files change.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/chartwell/config.yaml)")
	rootCmd.Flags().StringP("dir", "d", "", "dataset directory")
	rootCmd.Flags().Bool("debug", false, "write a debug log to chartwell.log")
	rootCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.Flags().Bool("no-auto-refresh", false, "do not re-render charts when dataset files change")

	_ = viper.BindPFlag("dataset_dir", rootCmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("metrics.addr", rootCmd.Flags().Lookup("metrics-addr"))

	rootCmd.AddCommand(newPaletteCmd(), newInitCmd())
}

func initConfig() {
	v := viper.GetViper()
	setDefaults(v, config.Defaults())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .chartwell/config.yaml (current directory)
		// 2. ~/.config/chartwell/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "chartwell"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "chartwell: reading config: %v\n", err)
		}
	}

	_ = v.Unmarshal(&cfg)
}

// setDefaults registers every config key so env and flag bindings resolve
// even when the file omits them.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("dataset_dir", d.DatasetDir)
	v.SetDefault("global_option_file", d.GlobalOptionFile)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.show_tooltip", d.UI.ShowTooltip)
	v.SetDefault("ui.chart_width", d.UI.ChartWidth)
	v.SetDefault("ui.chart_height", d.UI.ChartHeight)
	v.SetDefault("dimension.row_height", d.Dimension.RowHeight)
	v.SetDefault("dimension.chrome", d.Dimension.Chrome)
	v.SetDefault("dimension.min_height", d.Dimension.MinHeight)
	v.SetDefault("dimension.max_height", d.Dimension.MaxHeight)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.debounce", d.Cache.Debounce)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

func runApp(cmd *cobra.Command, _ []string) error {
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("CHARTWELL_DEBUG") != "" {
		cleanup, err := log.InitWithTeaLog("chartwell.log", "chartwell")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Warn(log.CatConfig, "Tracing shutdown failed", "error", err)
		}
	}()

	global, err := loadGlobalOption(cfg.GlobalOptionFile)
	if err != nil {
		return err
	}

	opts := []charts.Option{
		charts.WithTracer(provider.Tracer()),
		charts.WithDimension(dimension.New(cfg.Dimension)),
	}
	if cfg.Metrics.Addr != "" {
		opts = append(opts, charts.WithMetrics())
	}

	loop := scheduler.NewLoop()
	svc := charts.New(loop, global, opts...)
	defer svc.Close()

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, svc.Metrics().Handler())
		defer stop()
	}

	model := app.New(app.Services{
		Charts: svc,
		Loop:   loop,
		Source: dataset.NewSource(cfg.DatasetDir, cfg.Cache.TTL),
		Global: global,
	}, cfg)
	defer model.Close()

	zone.NewGlobal()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadGlobalOption builds the global option store. A missing file is fine:
// it is created the first time a setting is saved.
func loadGlobalOption(path string) (*globaloption.Store, error) {
	global := globaloption.New()
	if path == "" {
		return global, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return global, nil
	}
	if err := global.MergeFile(path); err != nil {
		return nil, err
	}
	return global, nil
}

func serveMetrics(addr string, handler http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorErr(log.CatConfig, "Metrics server stopped", err, "addr", addr)
		}
	}()
	log.Info(log.CatConfig, "Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
