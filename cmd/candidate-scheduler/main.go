package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/candidate-scheduler/internal/calendar"
	"github.com/username/candidate-scheduler/internal/config"
	"github.com/username/candidate-scheduler/internal/daemon"
	"github.com/username/candidate-scheduler/internal/export"
	"github.com/username/candidate-scheduler/internal/httpapi"
	"github.com/username/candidate-scheduler/internal/schedule"
	"github.com/username/candidate-scheduler/pkg/dateutil"
)

var (
	configPath string
	logger     *zap.Logger
)

// locationClock is the wall clock in the configured timezone
type locationClock struct {
	loc *time.Location
}

func (c locationClock) Now() time.Time { return time.Now().In(c.loc) }

// app holds the wired components shared by all commands
type app struct {
	cfg      *config.Config
	loc      *time.Location
	clock    schedule.Clock
	resolver *calendar.Resolver
	service  *schedule.Service
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "candidate-scheduler",
		Short: "Candidate schedule generator",
		Long:  "Generate candidate date and time slot lists for scheduling, skipping weekends and Japanese public holidays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log settings
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info") // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info") // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search config.yaml)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(durationsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		form     schedule.FormData
		existing string
		icsPath  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate candidate lines for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			// Unset fields take the prefilled form values
			defaults := schedule.DefaultForm(a.clock)
			flags := cmd.Flags()
			if !flags.Changed("start-date") {
				form.StartDate = defaults.StartDate
			}
			if !flags.Changed("end-date") {
				form.EndDate = defaults.EndDate
			}
			if !flags.Changed("start-time") {
				form.StartTime = defaults.StartTime
			}
			if !flags.Changed("end-time") {
				form.EndTime = defaults.EndTime
			}
			if !flags.Changed("duration") {
				form.Duration = defaults.Duration
			}

			ctx := cmd.Context()
			sub, err := a.service.Submit(ctx, form, existing)
			if err != nil {
				return err
			}

			if sub.Candidates != "" {
				fmt.Fprintln(cmd.OutOrStdout(), sub.Candidates)
			}

			icon := "✅"
			if !sub.Result.Success {
				icon = "⚠️"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%d/%d)\n", icon, sub.Result.Message, sub.Filled, sub.Total)

			if icsPath != "" {
				if err := writeICSFile(icsPath, sub, a.clock.Now()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "📅 %d event(s) written to %s\n", len(sub.Entries), icsPath)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&form.EventTitle, "title", "t", "", "Event title")
	f.StringVar(&form.Memo, "memo", "", "Memo")
	f.StringVar(&form.StartDate, "start-date", "", "First day (YYYY-MM-DD, default today)")
	f.StringVar(&form.EndDate, "end-date", "", "Last day (YYYY-MM-DD, default today)")
	f.StringVar(&form.StartTime, "start-time", "", "Window start (HH:MM, default current hour)")
	f.StringVar(&form.EndTime, "end-time", "", "Window end (HH:MM, default next hour)")
	f.StringVar(&form.Duration, "duration", "", "Slot length in minutes (default 60)")
	f.BoolVar(&form.FullDay, "full-day", false, "One line per day without time slots")
	f.BoolVar(&form.ExcludeHolidays, "exclude-holidays", false, "Skip weekends and public holidays")
	f.BoolVar(&form.Overwrite, "overwrite", false, "Replace the existing candidate text instead of appending")
	f.StringVar(&existing, "existing", "", "Candidate text already entered")
	f.StringVar(&icsPath, "ics", "", "Also write the candidates as an iCalendar file")

	return cmd
}

func holidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [YEAR]",
		Short: "List public holidays for a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			year := a.clock.Now().Year()
			if len(args) == 1 {
				year, err = strconv.Atoi(args[0])
				if err != nil || year < 1 || year > 9999 {
					return fmt.Errorf("invalid year: %s", args[0])
				}
			}

			set := a.resolver.HolidaysForYear(cmd.Context(), year)
			if set.Len() == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No holidays known for %d\n", year)
				return nil
			}

			formatter := schedule.NewFormatter(a.cfg.Schedule.Locale)
			for _, date := range set.Dates() {
				name, _ := set.Name(date)
				d, err := dateutil.ParseDate(date, a.loc)
				if err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s\n", date, formatter.FormatDate(d), name)
			}
			return nil
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day DATE",
		Short: "Show whether a date is a workday, weekend or holiday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}

			date, err := dateutil.ParseDate(args[0], a.loc)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			info := a.resolver.Classify(cmd.Context(), date)
			line := fmt.Sprintf("%s %s", dateutil.FormatISODate(info.Date), info.Type)
			if info.Note != "" {
				line += " (" + info.Note + ")"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
}

func durationsCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "durations",
		Short: "List slot lengths that fit in a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := schedule.AvailableDurations(start, end)
			if err != nil {
				return err
			}
			for _, opt := range options {
				marker := " "
				if opt.Minutes == schedule.DefaultDurationMinutes {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %4d  %s\n", marker, opt.Minutes, opt.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Window start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Window end (HH:MM)")

	return cmd
}

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with scheduled holiday warm-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			if listen != "" {
				a.cfg.Server.Listen = listen
			}

			router := httpapi.NewRouter(a.service, a.resolver, httpapi.Options{
				MaxRequests: a.cfg.Server.MaxRequests,
				Clock:       a.clock,
			}, logger)

			d := daemon.NewDaemon(router, a.resolver, daemon.Options{
				Listen:          a.cfg.Server.Listen,
				PrefetchCron:    a.cfg.Holidays.PrefetchCron,
				Location:        a.loc,
				ShutdownTimeout: a.cfg.Server.GetShutdownTimeout(),
				Clock:           a.clock,
			}, logger)

			return d.Start()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Override server.listen")

	return cmd
}

func writeICSFile(path string, sub *schedule.Submission, now time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ics path: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ics file: %w", err)
	}
	defer f.Close()

	return export.WriteICS(f, sub.Request, sub.Entries, now)
}

func initializeApp() (*app, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := cfg.Schedule.GetLocation()
	if err != nil {
		return nil, err
	}

	source, err := initializeSource(cfg)
	if err != nil {
		return nil, err
	}

	resolver := calendar.NewResolver(source, calendar.NewHolidayCache(), logger)
	generator := schedule.NewGenerator(resolver, schedule.NewFormatter(cfg.Schedule.Locale), logger)
	parser := schedule.NewParser(loc, cfg.Schedule.MaxDays)

	return &app{
		cfg:      cfg,
		loc:      loc,
		clock:    locationClock{loc: loc},
		resolver: resolver,
		service:  schedule.NewService(parser, generator, logger),
	}, nil
}

func initializeSource(cfg *config.Config) (calendar.Source, error) {
	h := cfg.Holidays

	switch h.Type {
	case config.HolidaysRemote:
		logger.Info("Using holidays-jp API", zap.String("base_url", h.BaseURL))
		return calendar.NewHolidaysJP(h.BaseURL, h.GetTimeout(), h.RatePerSec, logger), nil

	case config.HolidaysFile:
		logger.Info("Using holiday file", zap.String("file", h.FallbackFile))
		fileSource := calendar.NewFileSource(h.FallbackFile, logger)
		if err := fileSource.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return fileSource, nil

	case config.HolidaysComposite:
		logger.Info("Using holidays-jp API with file fallback",
			zap.String("base_url", h.BaseURL),
			zap.String("file", h.FallbackFile))
		primary := calendar.NewHolidaysJP(h.BaseURL, h.GetTimeout(), h.RatePerSec, logger)
		fallback := calendar.NewFileSource(h.FallbackFile, logger)
		composite := calendar.NewCompositeSource(primary, fallback, logger)

		// Load fallback calendar
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback holidays, continuing with API only",
				zap.Error(err))
		}
		return composite, nil

	default:
		return nil, fmt.Errorf("unknown holidays type: %s", h.Type)
	}
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
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

	return zap.New(core), nil
}
