package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/fpwatch/internal/config"
	"github.com/hpungsan/fpwatch/internal/db"
	"github.com/hpungsan/fpwatch/internal/display"
	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/feed"
	"github.com/hpungsan/fpwatch/internal/flightplan"
	"github.com/hpungsan/fpwatch/internal/ops"
	"github.com/hpungsan/fpwatch/internal/tracker"
)

// appEnv carries configuration and the lazily opened snapshot store.
type appEnv struct {
	cfg     *config.Config
	baseDir string
	db      *sql.DB
}

// database opens the snapshot store on first use.
func (e *appEnv) database() (*sql.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	database, err := db.Init(e.baseDir)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to initialize database: %w", err))
	}
	db.ConfigurePool(database, e.cfg)
	e.db = database
	return database, nil
}

func (e *appEnv) close() {
	if e.db != nil {
		e.db.Close()
		e.db = nil
	}
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "fpwatch",
		Usage:   "Replay ERAM flight-data messages as change logs and datablocks",
		Version: Version,
		Commands: []*cli.Command{
			eventsCmd(env),
			datablockCmd(env),
			latestCmd(env),
			listCmd(env),
			purgeCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func globFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "glob",
		Aliases: []string{"g"},
		Value:   cfg.MessagesGlob,
		Usage:   "Message files to process, in lexical (timestamp) order",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{Name: "verbose", Usage: "Log progress to stderr"}
}

// eventsCmd creates the events command.
func eventsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "events",
		Usage:     "Print what changed in a flight's plan, message by message",
		ArgsUsage: "<callsign>",
		Flags: []cli.Flag{
			globFlag(env.cfg),
			&cli.BoolFlag{Name: "persist", Value: env.cfg.Persist, Usage: "Resume from and save to the snapshot store"},
			&cli.BoolFlag{Name: "all-fields", Usage: "Also report kinematics and other ignored fields"},
			verboseFlag(),
		},
		Action: func(c *cli.Context) error {
			callsign, err := callsignArg(c)
			if err != nil {
				return outputError(err)
			}

			ignore := flightplan.NewIgnoreSet(env.cfg.IgnoredFields)
			if c.Bool("all-fields") {
				ignore = flightplan.IgnoreSet{}
			}
			t := tracker.NewWithIgnore(ignore)
			w := c.App.Writer

			runner := &feed.Runner{
				Tracker: t,
				Filter:  feed.ByCallsign(callsign),
				Log:     runLogger(c),
				OnUpdate: func(source string, u tracker.Update) error {
					return display.WriteChanges(w, source, u.Changes)
				},
			}

			if c.Bool("persist") {
				database, err := env.database()
				if err != nil {
					return outputError(err)
				}
				resume, err := ops.Seed(c.Context, database, t)
				if err != nil {
					return outputError(err)
				}
				runner.Resume = resume
				runner.Logf("resumed %d stored flights", len(resume))

				printChanges := runner.OnUpdate
				runner.OnUpdate = func(source string, u tracker.Update) error {
					if err := printChanges(source, u); err != nil {
						return err
					}
					_, err := ops.Save(c.Context, database, ops.SaveInput{Update: u, Source: source})
					return err
				}
			}

			return run(c, runner)
		},
	}
}

// datablockCmd creates the datablock command.
func datablockCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "datablock",
		Usage:     "Print a flight's four-line datablock after every message",
		ArgsUsage: "<callsign>",
		Flags: []cli.Flag{
			globFlag(env.cfg),
			&cli.StringFlag{Name: "home", Value: env.cfg.HomeFacility, Usage: "Home facility, shown as '-' in handoff codes"},
			verboseFlag(),
		},
		Action: func(c *cli.Context) error {
			callsign, err := callsignArg(c)
			if err != nil {
				return outputError(err)
			}

			codes := display.FacilityCodes{Home: c.String("home"), Letters: env.cfg.FacilityLetters}
			w := c.App.Writer

			runner := &feed.Runner{
				Tracker: tracker.New(),
				Filter:  feed.ByCallsign(callsign),
				Log:     runLogger(c),
				OnUpdate: func(_ string, u tracker.Update) error {
					return display.WriteDatablock(w, u.Current, codes)
				},
			}
			return run(c, runner)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "latest",
		Usage:     "Show the stored latest snapshot of a flight",
		ArgsUsage: "<callsign>",
		Action: func(c *cli.Context) error {
			callsign, err := callsignArg(c)
			if err != nil {
				return outputError(err)
			}
			database, err := env.database()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Latest(c.Context, database, ops.LatestInput{Callsign: callsign})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored flights",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			database, err := env.database()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.List(c.Context, database, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "Permanently delete stored snapshots (all flights if no callsign)",
		ArgsUsage: "[callsign]",
		Action: func(c *cli.Context) error {
			database, err := env.database()
			if err != nil {
				return outputError(err)
			}

			input := ops.PurgeInput{}
			if c.NArg() > 0 {
				callsign := c.Args().First()
				input.Callsign = &callsign
			}

			output, err := ops.Purge(c.Context, database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// Helper functions

// callsignArg returns the normalized positional call sign.
func callsignArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", errors.NewInvalidRequest(fmt.Sprintf("callsign is required: %s %s <callsign>", c.App.Name, c.Command.Name))
	}
	return ops.ValidateCallsign(c.Args().First())
}

// runLogger returns a stderr logger when --verbose is set.
func runLogger(c *cli.Context) *log.Logger {
	if !c.Bool("verbose") {
		return nil
	}
	return log.New(c.App.ErrWriter, c.App.Name+": ", 0)
}

// run discovers the message files and drives them through runner.
func run(c *cli.Context, runner *feed.Runner) error {
	paths, err := feed.Discover(c.String("glob"))
	if err != nil {
		return outputError(err)
	}
	if len(paths) == 0 {
		runner.Logf("no message files match %s", c.String("glob"))
		return nil
	}
	if _, err := runner.Run(c.Context, paths); err != nil {
		return outputError(err)
	}
	return nil
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var fpErr *errors.FPError
	if errors.As(err, &fpErr) {
		msg := fmt.Sprintf("[%s] %s", fpErr.Code, fpErr.Message)
		if fpErr.Source != "" {
			msg += fmt.Sprintf(" (%s)", fpErr.Source)
		}
		return cli.Exit(msg, 1)
	}
	return cli.Exit(err.Error(), 1)
}
