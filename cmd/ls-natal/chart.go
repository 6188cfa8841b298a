package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/ui"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// chartFlags are the flags of the chart command.
type chartFlags struct {
	date      string
	clock     string
	lat       float64
	lon       float64
	dst       bool
	aspects   string
	midpoints bool
	from      string
	to        string
	jsonOut   bool
	tui       bool
	ephem     string
	orbs      string
	step      time.Duration
	steps     int
}

func newChartCmd(g *globalFlags) *cobra.Command {
	f := &chartFlags{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Cast a natal chart",
		Long: `Cast a natal chart for a local civil date and time at a place.

The time zone is derived from the longitude in whole hours; --dst moves the
clock back one hour. Output is a text summary unless --json or --tui is set.
With --steps the chart is rebuilt at --step intervals and the sign ingresses
and aspect changes between consecutive charts are listed.`,
		Example: `  ls-natal chart --date 1990-06-15 --time 14:30 --lat 40.71 --lon -74.01
  ls-natal chart --date 1990-06-15 --time 14:30 --lat 40.71 --lon -74.01 --midpoints --from sun,moon --to mars
  ls-natal chart --date 2024-01-01 --time 00:00 --steps 30 --aspects conjunction,opposite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, g, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "civil date (YYYY-MM-DD)")
	fl.StringVar(&f.clock, "time", "", "civil time (HH:MM, 24 hour)")
	fl.Float64Var(&f.lat, "lat", 0, "latitude in degrees, north positive (default from config)")
	fl.Float64Var(&f.lon, "lon", 0, "longitude in degrees, east positive (default from config)")
	fl.BoolVar(&f.dst, "dst", false, "daylight saving time was in effect")
	fl.StringVar(&f.aspects, "aspects", "", "comma-separated aspects to show, or all/none (default from config)")
	fl.BoolVar(&f.midpoints, "midpoints", false, "show midpoint aspects instead of direct aspects")
	fl.StringVar(&f.from, "from", "", "comma-separated bodies for the first midpoint member")
	fl.StringVar(&f.to, "to", "", "comma-separated bodies for the second midpoint member")
	fl.BoolVar(&f.jsonOut, "json", false, "write the chart as JSON")
	fl.BoolVar(&f.tui, "tui", false, "open the interactive terminal UI")
	fl.StringVar(&f.ephem, "ephem", "", "ephemeris source: analytic, horizons or auto (default from config)")
	fl.StringVar(&f.orbs, "orbs", "", "orb table: symmetric or legacy (default from config)")
	fl.DurationVar(&f.step, "step", 24*time.Hour, "interval between charts with --steps")
	fl.IntVar(&f.steps, "steps", 0, "number of further charts to build for a transit series")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	cmd.MarkFlagsMutuallyExclusive("json", "tui")
	cmd.MarkFlagsMutuallyExclusive("json", "steps")
	cmd.MarkFlagsMutuallyExclusive("tui", "steps")
	return cmd
}

func runChart(cmd *cobra.Command, g *globalFlags, f *chartFlags) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if err := f.apply(cmd, cfg); err != nil {
		return err
	}

	in, err := parseInput(f.date, f.clock, cfg.Chart.Latitude, cfg.Chart.Longitude)
	if err != nil {
		return err
	}
	opts, err := f.options(cfg)
	if err != nil {
		return err
	}

	gw, err := cfg.Ephemeris.Gateway(logger)
	if err != nil {
		return err
	}
	orbs, err := cfg.Chart.OrbMap()
	if err != nil {
		return err
	}
	b := chart.NewBuilder(gw, chart.WithLogger(logger), chart.WithOrbs(orbs))

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if f.tui {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			// The UI owns the screen; build errors show in its footer
			logger.SetOutput(io.Discard)
			mgr := state.NewManager(cfg.State.Manager())
			return ui.Run(ctx, ui.New(b, mgr, in, opts, logger))
		}
		logger.Warn("stdout is not a terminal, printing the text summary")
	}

	if f.steps > 0 {
		return runSeries(ctx, out, b, cfg.State.Manager(), in, opts, f.step, f.steps, logger)
	}

	c, err := b.Build(in, opts)
	if err != nil {
		return err
	}
	logger.Debug("chart built: jd=%.6f ephemeris=%s", c.Info.JulianDay, c.Info.Ephemeris)

	if f.jsonOut {
		return c.Export().WriteJSON(out)
	}
	chart.WriteSummary(out, c)
	return nil
}

// apply copies the flags the user set over the configuration and checks the
// result again.
func (f *chartFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("lat") {
		cfg.Chart.Latitude = f.lat
	}
	if fl.Changed("lon") {
		cfg.Chart.Longitude = f.lon
	}
	if fl.Changed("dst") {
		cfg.Chart.DST = f.dst
	}
	if fl.Changed("aspects") {
		cfg.Chart.Aspects = strings.Split(f.aspects, ",")
	}
	if fl.Changed("ephem") {
		cfg.Ephemeris.Mode = f.ephem
	}
	if fl.Changed("orbs") {
		cfg.Chart.Orbs = f.orbs
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if f.steps < 0 {
		return errors.New("invalid flags: --steps must not be negative")
	}
	if f.steps > 0 && f.step <= 0 {
		return errors.New("invalid flags: --step must be positive")
	}
	return nil
}

// options returns the chart options from the configuration and the
// midpoint flags.
func (f *chartFlags) options(cfg *config.Config) (chart.Options, error) {
	opts, err := cfg.ChartOptions()
	if err != nil {
		return opts, err
	}
	if !f.midpoints {
		if f.from != "" || f.to != "" {
			return opts, errors.New("--from and --to need --midpoints")
		}
		return opts, nil
	}

	opts.Midpoints = true
	if opts.MidpointFrom, err = ephem.ParseBodies(f.from); err != nil {
		return opts, fmt.Errorf("--from: %w", err)
	}
	if opts.MidpointTo, err = ephem.ParseBodies(f.to); err != nil {
		return opts, fmt.Errorf("--to: %w", err)
	}
	return opts, nil
}

// parseInput parses the date and clock flags into a chart input.
func parseInput(date, clock string, lat, lon float64) (chart.Input, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return chart.Input{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	c, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return chart.Input{}, fmt.Errorf("invalid time %q: want HH:MM", clock)
	}

	in := chart.Input{
		Year:      d.Year(),
		Month:     int(d.Month()),
		Day:       d.Day(),
		Hour:      c.Hour(),
		Minute:    c.Minute(),
		Latitude:  lat,
		Longitude: lon,
	}
	if err := in.Validate(); err != nil {
		return chart.Input{}, err
	}
	return in, nil
}

// runSeries builds steps+1 charts from in, each step later than the last,
// and writes the events found between consecutive charts. Events carry the
// civil time of the chart that produced them.
func runSeries(ctx context.Context, w io.Writer, b *chart.Builder, cfg state.Config, in chart.Input, opts chart.Options, step time.Duration, steps int, logger *logging.Logger) error {
	current := in
	cfg.Clock = func() time.Time { return current.Time() }
	if cfg.MaxEvents < 1000 {
		cfg.MaxEvents = 1000
	}
	mgr := state.NewManager(cfg)

	for i := 0; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		c, err := b.Build(current, opts)
		mgr.Update(c, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("chart at %s: %w", current.Time().Format(dateLayout+" "+clockLayout), err)
		}
		logger.Debug("series step %d/%d built in %v", i, steps, time.Since(start))
		current = current.Add(step)
	}

	last := in.Add(time.Duration(steps) * step)
	fmt.Fprintf(w, "Transits %s .. %s every %s (%s)\n",
		in.Time().Format(dateLayout+" "+clockLayout),
		last.Time().Format(dateLayout+" "+clockLayout),
		step, aspectScope(opts))
	state.WriteEvents(w, shownEvents(mgr.Snapshot().Events, opts.Aspects), 0)
	return nil
}

// shownEvents drops aspect events whose kinds are all outside the enabled
// set. Ingresses are always kept.
func shownEvents(events []state.Event, set aspect.Set) []state.Event {
	var out []state.Event
	for _, e := range events {
		if e.Type == state.EventSignIngress || set.Has(e.OldKind) || set.Has(e.NewKind) {
			out = append(out, e)
		}
	}
	return out
}

func aspectScope(opts chart.Options) string {
	if opts.Midpoints {
		return "sign ingresses only"
	}
	if opts.Aspects == aspect.AllKinds() {
		return "all aspects"
	}
	return "aspects " + opts.Aspects.String()
}
