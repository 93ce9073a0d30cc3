package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/rodsim/internal/automation"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/optim"
	"github.com/san-kum/rodsim/internal/storage"
	"github.com/san-kum/rodsim/internal/viz"
	"github.com/spf13/cobra"
)

func presetOrDefault(args []string) (*config.Config, error) {
	if len(args) == 0 {
		return config.DefaultConfig(), nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	return cfg, nil
}

func sweepCommand() *cobra.Command {
	var (
		params   []string
		metric   string
		maximize bool
		limit    int
		simTime  float64
		top      int
	)

	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid search over force parameters",
		Long: `sweep runs one simulation per combination of parameter values.
Parameters use force.param keys, e.g.

  rodsim sweep incline --param plane_contact.mu_kinetic_backward=0.05:0.5:10 --metric travel --maximize`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := presetOrDefault(args)
			if err != nil {
				return err
			}
			if simTime > 0 {
				base.Sim.Duration = simTime
			}
			if len(params) == 0 {
				return fmt.Errorf("at least one --param is required")
			}

			names := make([]string, len(params))
			ranges := make([][]float64, len(params))
			for i, p := range params {
				name, spec, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("bad --param %q, want key=lo:hi:n or key=v1,v2", p)
				}
				values, err := optim.ParseRange(spec)
				if err != nil {
					return err
				}
				names[i], ranges[i] = name, values
			}

			g, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}
			goal := optim.Minimize
			if maximize {
				goal = optim.Maximize
			}

			fmt.Printf("sweeping %d combinations of %s on %s...\n", g.Size(), strings.Join(names, ", "), base.Name)
			start := time.Now()
			best, points, err := g.WithWorkers(limit).Search(context.Background(), base, metric, goal)
			if err != nil {
				return err
			}
			fmt.Printf("completed in %v\n\n", time.Since(start))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(append(append([]string{}, names...), metric), "\t")))
			ranked := optim.Rank(points, goal)
			if top > 0 && top < len(ranked) {
				ranked = ranked[:top]
			}
			for _, p := range ranked {
				for _, n := range names {
					fmt.Fprintf(w, "%.4g\t", p.Params[n])
				}
				fmt.Fprintf(w, "%.6g\n", p.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(viz.Summary("best", best.Params))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter grid, key=lo:hi:n or key=v1,v2,...")
	cmd.Flags().StringVar(&metric, "metric", "travel", "metric to rank by")
	cmd.Flags().BoolVar(&maximize, "maximize", false, "rank by largest metric")
	cmd.Flags().IntVar(&limit, "workers", 0, "concurrent runs (0 = unlimited)")
	cmd.Flags().Float64Var(&simTime, "time", 0, "duration (default from preset)")
	cmd.Flags().IntVar(&top, "top", 10, "rows to print (0 = all)")
	return cmd
}

func scenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			fmt.Printf("scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Printf("%s\n", sc.Description)
			}
			results, err := automation.RunScenario(context.Background(), sc, st, func(i, n int, name string) {
				fmt.Printf("running step %d/%d: %s\n", i, n, name)
			})
			if err != nil {
				return err
			}

			for _, r := range results {
				title := r.Name
				if r.RunID != "" {
					title += " (" + r.RunID + ")"
				}
				fmt.Println(viz.Summary(title, r.Result.Metrics))
			}
			return nil
		},
	}
}

func monteCarloCommand() *cobra.Command {
	var (
		lift   float64
		trials int
		seed   int64
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "drop the rod from random heights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := presetOrDefault(args)
			if err != nil {
				return err
			}

			fmt.Printf("running %d trials of %s...\n\n", trials, base.Name)
			results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
				Base:      base,
				Lift:      lift,
				NumTrials: trials,
				Workers:   limit,
				Seed:      seed,
			})
			if err != nil {
				return err
			}

			stable := 0
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRIAL\tLIFT\tFINAL_HEIGHT\tPENETRATION\tSTABLE")
			for _, r := range results {
				if r.Stable {
					stable++
				}
				fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.3e\t%v\n", r.TrialID, r.Lift, r.FinalHeight, r.MaxPenetration, r.Stable)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d/%d trials stable\n", stable, len(results))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lift, "lift", 0.2, "maximum drop height above the plane")
	cmd.Flags().IntVar(&trials, "trials", 10, "number of trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&limit, "workers", 0, "concurrent runs (0 = unlimited)")
	return cmd
}

func benchCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the contact kernel backends",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := presetOrDefault(args)
			if err != nil {
				return err
			}

			if steps <= 0 {
				return fmt.Errorf("steps must be positive, got %d", steps)
			}

			fmt.Printf("benchmarking %s, %d steps\n\n", base.Name, steps)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ELEMENTS\tBACKEND\tNS/STEP")

			for _, n := range []int{20, 200, 2000} {
				for _, b := range []string{config.BackendSerial, config.BackendParallel} {
					cfg := base.Clone()
					cfg.Rod.Elements = n
					cfg.Sim.Backend = b

					exp := experiment.New(cfg)
					if err := exp.Setup(); err != nil {
						return err
					}
					s, r := exp.GetSimulator(), exp.Rod()

					start := time.Now()
					for i := 0; i < steps; i++ {
						if err := s.Step(r, float64(i)*cfg.Sim.Dt, cfg.Sim.Dt); err != nil {
							return err
						}
					}
					per := time.Since(start).Nanoseconds() / int64(steps)
					fmt.Fprintf(w, "%d\t%s\t%d\n", n, b, per)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1000, "steps per measurement")
	return cmd
}
