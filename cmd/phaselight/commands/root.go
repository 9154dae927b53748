package commands

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anggasct/phaselight"
	"github.com/anggasct/phaselight/pkg/observers"
	"github.com/anggasct/phaselight/pkg/queue"
)

// options holds the command line settings of the driver
type options struct {
	configFile string
	minCycle   int
	maxCycle   int
	latencyMs  int
	order      string
	waiters    int
	greens     int
	speed      float64
	verbose    bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newCommand(&options{})
}

func newCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "phaselight",
		Short:         "phaselight - simulate a traffic light and vehicles waiting for green",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd, cfg, opts)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.IntVar(&opts.minCycle, "min", phaselight.DefaultMinCycleSeconds, "shortest phase in seconds")
	flags.IntVar(&opts.maxCycle, "max", phaselight.DefaultMaxCycleSeconds, "longest phase in seconds")
	flags.IntVar(&opts.latencyMs, "latency", phaselight.DefaultSendLatencyMs, "simulated send latency in milliseconds")
	flags.StringVar(&opts.order, "order", queue.FIFO.String(), "queue order: fifo, lifo")
	flags.IntVarP(&opts.waiters, "waiters", "w", 1, "number of concurrent vehicles waiting for green")
	flags.IntVarP(&opts.greens, "greens", "g", 3, "green phases each vehicle waits for, 0 waits forever")
	flags.Float64Var(&opts.speed, "speed", 1, "clock speed-up factor")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "trace every queued phase")

	return cmd
}

// buildConfig layers explicitly set flags over the config file over defaults.
func buildConfig(flags *pflag.FlagSet, opts *options) (phaselight.Config, error) {
	cfg := phaselight.DefaultConfig()

	if opts.configFile != "" {
		data, err := os.ReadFile(opts.configFile)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = phaselight.ParseConfig(data); err != nil {
			return cfg, err
		}
	}

	if flags.Changed("min") {
		cfg.MinCycleSeconds = opts.minCycle
	}
	if flags.Changed("max") {
		cfg.MaxCycleSeconds = opts.maxCycle
	}
	if flags.Changed("latency") {
		cfg.SendLatencyMs = opts.latencyMs
	}
	if flags.Changed("order") {
		order, err := queue.ParseOrder(opts.order)
		if err != nil {
			return cfg, err
		}
		cfg.QueueOrder = order
	}

	if opts.waiters < 1 {
		return cfg, phaselight.NewConfigurationError("waiters", "at least one waiter is required")
	}
	if !(opts.speed > 0) || math.IsInf(opts.speed, 0) {
		return cfg, phaselight.NewConfigurationError("speed", fmt.Sprintf("must be a positive finite number, got %v", opts.speed))
	}
	if opts.greens < 0 {
		return cfg, phaselight.NewConfigurationError("greens", "cannot be negative")
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cmd *cobra.Command, cfg phaselight.Config, opts *options) error {
	out := &lockedWriter{w: cmd.OutOrStdout()}

	logger := observers.NewDefaultLoggingObserver()
	logger.SetOutput(out)
	if opts.verbose {
		logger.SetLevel(observers.LogDebug)
	}

	metrics := observers.NewMetricsObserver()

	light, err := phaselight.New(
		phaselight.WithConfig(cfg),
		phaselight.WithClock(phaselight.NewScaledClock(opts.speed)),
		phaselight.WithObserver(logger),
		phaselight.WithObserver(metrics),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Light %s is %s\n", light.ID(), light.CurrentPhase())

	if err := light.SimulateWithContext(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 1; i <= opts.waiters; i++ {
		wg.Add(1)
		go func(vehicle int) {
			defer wg.Done()
			for n := 0; opts.greens == 0 || n < opts.greens; n++ {
				if err := light.WaitForGreenWithContext(ctx); err != nil {
					return
				}
				fmt.Fprintf(out, "Vehicle #%d crosses on green (light is %s)\n", vehicle, light.CurrentPhase())
			}
		}(i)
	}
	wg.Wait()

	// the loop may already have exited on ctx
	if err := light.Stop(); err != nil && phaselight.GetErrorCode(err) != phaselight.ErrCodeNotStarted {
		return err
	}

	minElapsed, maxElapsed := metrics.GetElapsedRange()
	fmt.Fprintf(out, "%d phase changes, shortest %v, longest %v, %d unread\n",
		metrics.GetFlipCount(), minElapsed, maxElapsed, light.Pending())
	return nil
}

// lockedWriter serializes writes from the logger and the waiters.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
