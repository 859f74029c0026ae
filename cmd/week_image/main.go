package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/app"
	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/client"
	"github.com/Freeeeeet/practice_calendar/internal/config"
	"github.com/Freeeeeet/practice_calendar/internal/formatting"
	"github.com/Freeeeeet/practice_calendar/internal/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cliApp := &cli.App{
		Name:  "week_image",
		Usage: "Render a practice calendar week as PNG.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "week.png", Usage: "Output PNG file."},
		},
		Commands: []*cli.Command{
			renderCommand(cfg),
			replayCommand(cfg),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("week_image failed: %v", err)
	}
}

func renderCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Load a week from the session store and draw it.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Any date of the week, YYYY-MM-DD. Defaults to today."},
			&cli.StringFlag{Name: "store", Value: cfg.StoreURL, Usage: "Session store base URL."},
			&cli.StringFlag{Name: "user", Value: cfg.PsychologistID, Usage: "Psychologist id sent as X-User-Id."},
		},
		Action: func(c *cli.Context) error {
			logger := app.NewLogger(cfg.Environment, "week_image")
			defer logger.Sync()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			start, err := weekStart(c.String("from"), loc)
			if err != nil {
				return err
			}

			storeCfg := client.Config{BaseURL: c.String("store"), Timeout: cfg.HTTPTimeout}
			week := calendar.New(calendar.Options{
				Store:     client.NewSessionClient(storeCfg),
				Directory: client.NewDirectoryClient(storeCfg),
				User:      client.StaticUser(c.String("user")),
				Location:  loc,
				Logger:    logger,
			})
			if err := week.Load(c.Context, start.Format("2006-01-02"), start.AddDate(0, 0, 6).Format("2006-01-02")); err != nil {
				return fmt.Errorf("load week: %w", err)
			}

			return writeImage(c.String("out"), start, week, logger)
		},
	}
}

func replayCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Replay pointer events from a JSON script and draw the result.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "script", Required: true, Usage: "Path to the JSON script."},
		},
		Action: func(c *cli.Context) error {
			logger := app.NewLogger(cfg.Environment, "week_image")
			defer logger.Sync()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			script, err := loadScript(c.String("script"))
			if err != nil {
				return err
			}
			start, err := weekStart(script.WeekStart, loc)
			if err != nil {
				return err
			}

			store := newMemStore(script.Sessions, script.Relationships)
			week := calendar.New(calendar.Options{
				Store:     store,
				Directory: store,
				User:      client.StaticUser("replay"),
				Viewport:  render.WeekLayout(start),
				Location:  loc,
				Logger:    logger,
			})
			if err := week.Load(c.Context, start.Format("2006-01-02"), start.AddDate(0, 0, 6).Format("2006-01-02")); err != nil {
				return fmt.Errorf("load week: %w", err)
			}

			result, err := replay(c.Context, week, script.Events, logger)
			if err != nil {
				return err
			}
			for _, d := range result.Drafts {
				fmt.Printf("Черновик: %s %s\n", formatting.FormatDate(d.Date), formatting.FormatTimeRange(d.StartTime, d.EndTime))
			}
			for _, s := range result.Created {
				fmt.Printf("Создана сессия %s: %s %s\n", s.ID, formatting.FormatDate(s.Date), formatting.FormatTimeRange(s.StartTime, s.EndTime))
			}

			return writeImage(c.String("out"), start, week, logger)
		},
	}
}

// weekStart возвращает понедельник недели даты raw; пустая строка - текущая неделя
func weekStart(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return formatting.WeekStart(time.Now().In(loc)), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week date %q: %w", raw, err)
	}
	return formatting.WeekStart(day), nil
}

func writeImage(path string, start time.Time, week *calendar.WeekCalendar, logger *zap.Logger) error {
	data, err := render.GenerateWeekImage(start, week.Sessions(), week.Preview())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logger.Info("Week image saved",
		zap.String("file", path),
		zap.String("week", formatting.FormatWeekRange(start)),
		zap.Int("sessions", len(week.Sessions())),
	)
	return nil
}
