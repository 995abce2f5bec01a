package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/calendrier-api/internal/api"
	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/internal/config"
	"github.com/username/calendrier-api/internal/holidays"
	"github.com/username/calendrier-api/internal/server"
)

var (
	configPath string
	logger     *zap.Logger
	cfg        *config.Config
	stdout     io.Writer = os.Stdout
)

var timeNow = time.Now

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "calendrier-api",
		Short:         "Calendriers Lundi-Vendredi et jours fériés français",
		Long:          "HTTP API generating weekday-only monthly calendars and listing French public holidays scraped from calendrier-365.fr",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				logger = initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(holidaysCmd())

	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(cfg.Server.Mode)

			scraper := holidays.NewScraper(cfg.Scraper.ClientConfig(), holidays.NewTableParser(), logger)
			handler := api.NewHandler(scraper, cfg.Calendar.YearPolicy(), logger)
			router := api.NewRouter(handler, logger)

			srv := server.New(cfg.Server.Addr(), router, cfg.Server.GetShutdownTimeout(), logger)

			go func() {
				select {
				case <-srv.Ready():
				case <-contextOf(cmd).Done():
					return
				}
				logger.Info("Serveur démarré",
					zap.String("addr", srv.Addr()))
				for _, r := range api.Routes {
					logger.Info("Route disponible",
						zap.String("method", r.Method),
						zap.String("path", r.Path),
						zap.String("description", r.Description))
				}
			}()

			return srv.Run(contextOf(cmd))
		},
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [year]",
		Short: "Print the weekday calendars of a year as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := cfg.Calendar.YearPolicy().Resolve(args...)
			if err != nil {
				return err
			}

			return printJSON(api.CalendarsResponse{
				Success:     true,
				Year:        year,
				Description: fmt.Sprintf("Calendriers de Janvier à Décembre %d (Lundi à Vendredi)", year),
				Calendars:   calendar.Generate(year),
			})
		},
	}
}

func holidaysCmd() *cobra.Command {
	var reference bool
	var icsOutput bool

	cmd := &cobra.Command{
		Use:   "holidays [year]",
		Short: "Print the French public holidays of a year as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := cfg.Calendar.YearPolicy().Resolve(args...)
			if err != nil {
				return err
			}

			if icsOutput {
				_, err := fmt.Fprint(stdout, holidays.ICS(year, holidays.ReferenceHolidays(year), timeNow().UTC()))
				return err
			}

			var records []holidays.Record
			if reference {
				records = holidays.Reference(year, timeNow())
			} else {
				scraper := holidays.NewScraper(cfg.Scraper.ClientConfig(), holidays.NewTableParser(), logger)
				records, err = scraper.Fetch(contextOf(cmd), year)
				if err != nil {
					return fmt.Errorf("failed to fetch holidays for %d: %w", year, err)
				}
			}

			if records == nil {
				records = []holidays.Record{}
			}
			return printJSON(api.HolidaysResponse{
				Success:     true,
				Title:       fmt.Sprintf("Jours fériés %d", year),
				Description: fmt.Sprintf("Les jours fériés les plus communs de France en %d sont mentionnés ci-dessous.", year),
				Year:        year,
				Total:       len(records),
				Holidays:    records,
			})
		},
	}

	cmd.Flags().BoolVar(&reference, "reference", false, "Compute holidays locally instead of scraping")
	cmd.Flags().BoolVar(&icsOutput, "ics", false, "Print locally computed holidays as iCalendar")

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func initLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
