package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"deedfind/internal/config"
	"deedfind/internal/database"
	"deedfind/internal/search"
	"deedfind/internal/session"
	"deedfind/internal/sheet"
	"deedfind/internal/types"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "deedfind: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "deedfind",
		Usage: "Look up title deeds by Hajry, Mazaya and building number",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the TOML config file",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "data-source",
				Usage: "Dataset source (" + strings.Join(database.Sources, ", ") + ")",
			},
			&cli.StringFlag{
				Name:  "data-path",
				Usage: "Dataset file for the file and shapefile sources",
			},
		},
		Before: setupLogger,
		Action: interactiveCommand,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run a single query",
				ArgsUsage: "TERM",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (general, hajry, combined, mazaya)",
						Value:   search.ModeGeneral.String(),
					},
					&cli.StringFlag{
						Name:    "building",
						Aliases: []string{"b"},
						Usage:   "Building No. for combined mode",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Show every column",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Also save the results to an .xlsx or .csv file",
					},
				},
			},
			{
				Name:      "bulk",
				Usage:     "Search every row of an .xlsx or .csv file",
				ArgsUsage: "FILE",
				Action:    bulkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Matching mode applied to each row",
						Value:   search.ModeBulk.String(),
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Add the Municipality/Title Deed column",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Also save the results to an .xlsx or .csv file",
					},
				},
			},
			{
				Name:   "all",
				Usage:  "List every record",
				Action: allCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Also save the records to an .xlsx or .csv file",
					},
				},
			},
			{
				Name:   "template",
				Usage:  "Write the bulk search template workbook",
				Action: templateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default DeedFind_Template_<date>.xlsx)",
					},
				},
			},
			{
				Name:      "convert",
				Usage:     "Convert the office source workbook into a dataset file",
				ArgsUsage: "SOURCE OUT",
				Action:    convertCommand,
			},
			{
				Name:   "info",
				Usage:  "Show dataset statistics",
				Action: infoCommand,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration as TOML",
				Action: configCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	errWriter := c.App.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadConfig reads the config file and applies the data flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("data-source") {
		cfg.Data.Source = c.String("data-source")
	}
	if c.IsSet("data-path") {
		cfg.Data.Path = c.String("data-path")
		if !c.IsSet("data-source") && cfg.Data.Source == database.SourceEmbedded {
			cfg.Data.Source = sourceForPath(cfg.Data.Path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sourceForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return database.SourceShapefile
	}
	return database.SourceFile
}

// engine is the loaded dataset with the searcher over it.
type engine struct {
	cfg      *config.Config
	store    *database.Store
	searcher *search.Searcher
}

func openEngine(c *cli.Context) (*engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	eq, err := cfg.BuildingEquivalence()
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	store, err := database.Open(c.Context, cfg.Data.Source, cfg.Data.Path, logger)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store,
		search.WithColumns(cfg.SearchColumns()),
		search.WithEquivalence(eq),
		search.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return &engine{cfg: cfg, store: store, searcher: searcher}, nil
}

func newPrinter(c *cli.Context) printer {
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	color := false
	if f, ok := out.(*os.File); ok {
		color = isTerminal(f)
	}
	return printer{out: out, color: color}
}

func interactiveCommand(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unknown command %q", c.Args().First())
	}

	start := time.Now()
	e, err := openEngine(c)
	if err != nil {
		return err
	}
	p := newPrinter(c)
	p.printf("Dataset loaded in %v (%d records from %s)\n",
		time.Since(start).Truncate(time.Millisecond), e.store.Len(), e.store.Source())

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	r := newREPL(e.searcher, session.New(e.searcher, slog.Default()), in, p)

	if f, ok := in.(*os.File); ok && isTerminal(f) {
		eq := e.searcher.Equivalence()
		r.browse = func(records []types.DeedRecord) {
			lines := tableLines(resultTable(records, viewCompact, eq))[2:]
			pickRecord(f, p.out, lines, func(i int) { p.deed(records[i], eq) })
		}
	}
	return r.run()
}

func searchCommand(c *cli.Context) error {
	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	if mode == search.ModeBulk {
		return errors.New("bulk mode needs a spreadsheet; use the bulk command")
	}

	term := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	building := strings.TrimSpace(c.String("building"))
	if building != "" && mode != search.ModeCombined {
		slog.Warn("--building is only used in combined mode", "mode", mode)
		building = ""
	}
	if term == "" && building == "" {
		return errors.New("a search term is required")
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}
	p := newPrinter(c)
	eq := e.searcher.Equivalence()

	records := search.Dedup(e.searcher.Match(mode, term, building))
	if len(records) == 0 {
		p.notFound(mode, term, building)
		return nil
	}

	v := viewFor(false, c.Bool("full"))
	p.results(mode.Title(), records, v, eq)
	return saveIfRequested(c, p, records, v, eq)
}

func bulkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one spreadsheet file")
	}
	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	grid, err := sheet.ReadGrid(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	p := newPrinter(c)
	eq := e.searcher.Equivalence()
	full := c.Bool("full")

	res := e.searcher.MatchBulk(grid, mode)
	p.bulk(res, full, e.searcher.Columns(), eq)
	if res.Outcome != search.OutcomeFound {
		return nil
	}
	return saveIfRequested(c, p, res.Records, viewFor(true, full), eq)
}

func allCommand(c *cli.Context) error {
	e, err := openEngine(c)
	if err != nil {
		return err
	}
	p := newPrinter(c)
	eq := e.searcher.Equivalence()

	records := e.searcher.All()
	p.results("All Records", records, viewFull, eq)
	return saveIfRequested(c, p, records, viewFull, eq)
}

func saveIfRequested(c *cli.Context, p printer, records []types.DeedRecord, v view, eq *search.Equivalence) error {
	out := c.String("out")
	if out == "" {
		return nil
	}
	if err := exportResults(out, records, v, eq); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	p.printf("Exported %d record(s) to %s\n", len(records), out)
	return nil
}

func templateCommand(c *cli.Context) error {
	out := c.String("out")
	if out == "" {
		out = sheet.TemplateName(time.Now())
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := sheet.WriteTemplate(f); err != nil {
		f.Close()
		return fmt.Errorf("write template: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	newPrinter(c).printf("Template saved to %s\n", out)
	return nil
}

func convertCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected SOURCE and OUT arguments")
	}
	src, dst := c.Args().Get(0), c.Args().Get(1)

	format, err := sheet.FormatOf(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := sheet.ConvertSource(in, format)
	if err != nil {
		return fmt.Errorf("convert %s: %w", src, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := database.WriteDeeds(out, records); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	slog.Info("source workbook converted", "source", src, "out", dst, "records", len(records))
	newPrinter(c).printf("Converted %d record(s) from %s to %s\n", len(records), src, dst)
	return nil
}

func infoCommand(c *cli.Context) error {
	e, err := openEngine(c)
	if err != nil {
		return err
	}
	p := newPrinter(c)

	cols := e.searcher.Columns()
	p.printf("Source      : %s (%s)\n", e.store.Source(), e.cfg.Data.Source)
	p.printf("Records     : %d\n", e.store.Len())
	p.printf("Unique      : %d\n", len(e.searcher.All()))
	p.printf("Fingerprint : %016x\n", e.store.Fingerprint())
	p.printf("Columns     : %s | %s | %s\n", cols.Primary, cols.Secondary, cols.Building)

	eq := e.searcher.Equivalence()
	var classes []string
	for _, b := range e.cfg.Equivalence.Building {
		classes = append(classes, fmt.Sprintf("%s = %s", b.Canonical, strings.Join(eq.Aliases(b.Canonical), ", ")))
	}
	slices.Sort(classes)
	classes = slices.Compact(classes)
	direction := "one-way"
	if eq.Symmetric() {
		direction = "symmetric"
	}
	p.printf("Equivalence : %s (%s)\n", strings.Join(classes, "; "), direction)
	return nil
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = newPrinter(c).out.Write(data)
	return err
}
