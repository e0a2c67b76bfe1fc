package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/screa/hashhunter/internal/config"
	logpkg "github.com/screa/hashhunter/internal/logger"
	"github.com/screa/hashhunter/internal/output"
	"github.com/screa/hashhunter/pkg/entropy"
	minerpkg "github.com/screa/hashhunter/pkg/miner"
	"github.com/screa/hashhunter/pkg/types"
)

const version = "0.4.0"

var (
	flags      = config.NewConfig()
	configFile string
	logger     *logpkg.Logger

	printer = message.NewPrinter(language.English)

	cyan   = color.New(color.FgHiCyan)
	green  = color.New(color.FgHiGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	blue   = color.New(color.FgHiBlue)
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "hashhunter",
		Short: "Ethereum vanity address generator",
		Long: `hashhunter searches for secp256k1 key pairs whose Ethereum address matches
a prefix, a suffix, a minimum number of zeros and/or a regular expression.
Patterns are matched against the 40-character address body (no 0x) in the
casing you will receive: with --checksum (the default) that is EIP-55 casing.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHunter,
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.Search.Patterns.Start, "prefix", "p", "", "Address prefix to match (hex, case-sensitive)")
	f.StringVarP(&flags.Search.Patterns.End, "suffix", "e", "", "Address suffix to match (hex, case-sensitive)")
	f.BoolVarP(&flags.Search.Validation.UseChecksum, "checksum", "c", true, "Match against the EIP-55 checksummed address")
	f.IntVarP(&flags.Performance.StepSize, "step", "s", flags.Performance.StepSize, "Attempts buffered per worker before updating the shared counter")
	f.Uint64VarP(&flags.Performance.MaxTries, "max-tries", "m", flags.Performance.MaxTries, "Maximum number of attempts")
	f.IntVarP(&flags.Performance.LogIntervalMs, "log-interval", "i", flags.Performance.LogIntervalMs, "Progress interval in milliseconds")
	f.IntVarP(&flags.Search.Validation.MinZeros, "min-zeros", "z", 0, "Minimum number of '0' characters in the address")
	f.StringVarP(&flags.Search.Patterns.Regex, "regex", "r", "", "Regular expression the address must match")
	f.BoolVarP(&flags.Security.SkipConfirmation, "yes", "y", false, "Skip the confirmation prompt")
	f.StringVarP((*string)(&flags.Performance.Threads), "workers", "w", config.AutoThreads, `Number of workers, or "auto" for one per CPU`)
	f.StringVarP(&flags.Output.Directory, "output-dir", "o", flags.Output.Directory, "Directory for found addresses and the run log")
	f.Float64Var(&flags.Security.Entropy.GuessesPerSecond, "guess-rate", flags.Security.Entropy.GuessesPerSecond, "Adversary guesses per second for the crack-time estimate")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose output")
	f.StringVarP(&flags.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	f.StringVar(&configFile, "config", "", "TOML config file; flags given explicitly override it")

	rootCmd.AddCommand(newVerifyCmd(), newChecksumCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runHunter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	criteria, err := cfg.Criteria()
	if err != nil {
		return err
	}
	limits, err := cfg.Limits()
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}
	for _, key := range cfg.Unknown {
		logger.Warnf("ignoring unknown config key %q", key)
	}

	printStartupScreen()
	printSettings(cfg, limits)

	report := entropy.Estimate(criteria, cfg.Security.Entropy.GuessesPerSecond)
	printer.Printf("Expected attempts: ~%.0f\n", report.ExpectedAttempts)

	if !cfg.Security.SkipConfirmation && !confirmStart(cmd.InOrStdin(), cmd.OutOrStdout()) {
		fmt.Println("Operation cancelled by user.")
		return nil
	}

	writer, err := output.NewWriter(cfg.Output.Directory, cfg.Output.Files.Log, cfg.Output.Files.SuccessMarker)
	if err != nil {
		return err
	}
	runLog, runLogFile, err := writer.RunLog()
	if err != nil {
		return err
	}
	defer runLogFile.Close()
	runLog.Printf("Starting hashhunter with %s", cfg.GetTargetDescription())

	bar := newProgressBar(limits.MaxAttempts)
	miner := minerpkg.NewMiner(criteria, limits, logger, minerpkg.WithProgress(reportProgress(bar, logger)))

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	interrupted := make(chan struct{})
	go func() {
		if _, ok := <-sigChan; ok {
			close(interrupted)
			logger.Printf("Interrupted, stopping after %d attempts...", miner.Attempts())
			miner.Stop()
		}
	}()

	logger.Printf("Starting Vanity Address Generator with %d workers...", limits.Workers)
	outcome, err := miner.Run()
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		runLog.Printf("Search failed: %v", err)
		return err
	}

	if outcome.Found() {
		reportFound(cfg, writer, runLog, outcome, report)
	} else {
		select {
		case <-interrupted:
			yellow.Println("Search stopped by user.")
		default:
			red.Println("Maximum attempts reached without finding a matching address.")
		}
		runLog.Printf("No match after %d attempts", outcome.Attempts)
	}

	printer.Printf("Total time elapsed: %s for %d attempts\n", outcome.Duration.Round(time.Millisecond), outcome.Attempts)
	return nil
}

// loadConfig reads --config if given, then applies every flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile == "" {
		return flags, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("prefix", func() { cfg.Search.Patterns.Start = flags.Search.Patterns.Start })
	set("suffix", func() { cfg.Search.Patterns.End = flags.Search.Patterns.End })
	set("regex", func() { cfg.Search.Patterns.Regex = flags.Search.Patterns.Regex })
	set("checksum", func() { cfg.Search.Validation.UseChecksum = flags.Search.Validation.UseChecksum })
	set("min-zeros", func() { cfg.Search.Validation.MinZeros = flags.Search.Validation.MinZeros })
	set("step", func() { cfg.Performance.StepSize = flags.Performance.StepSize })
	set("max-tries", func() { cfg.Performance.MaxTries = flags.Performance.MaxTries })
	set("log-interval", func() { cfg.Performance.LogIntervalMs = flags.Performance.LogIntervalMs })
	set("workers", func() { cfg.Performance.Threads = flags.Performance.Threads })
	set("output-dir", func() { cfg.Output.Directory = flags.Output.Directory })
	set("yes", func() { cfg.Security.SkipConfirmation = flags.Security.SkipConfirmation })
	set("guess-rate", func() { cfg.Security.Entropy.GuessesPerSecond = flags.Security.Entropy.GuessesPerSecond })
	cfg.Verbose = flags.Verbose
	cfg.LogFile = flags.LogFile
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	if cfg.LogFile != "" {
		// Log to file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	} else {
		// Log to stdout
		logger = logpkg.New()
		logger.SetFlags(logpkg.LstdFlags)
	}
	logger.SetVerbose(cfg.Verbose)
	return nil
}

func printStartupScreen() {
	fmt.Println()
	cyan.Println("╔═══════════════════════════════════════════════════════════════╗")
	cyan.Printf("║                hashhunter vanity address generator v%-9s ║\n", version)
	cyan.Println("╚═══════════════════════════════════════════════════════════════╝")
	yellow.Println("Warning: generated keys are held in memory unprotected; use them at your own risk.")
	fmt.Println()
}

func printSettings(cfg *config.Config, limits types.Limits) {
	model := "unknown CPU"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = strings.TrimSpace(info[0].ModelName)
	}
	if cores, err := cpu.Counts(false); err == nil {
		model = fmt.Sprintf("%s, %d physical cores", model, cores)
	}

	p := cfg.Search.Patterns
	fmt.Printf("Processor: %s\n", model)
	fmt.Printf("Workers: %d\n", limits.Workers)
	fmt.Printf("Prefix: %s\n", green.Sprint(p.Start))
	fmt.Printf("Suffix: %s\n", green.Sprint(p.End))
	if cfg.Search.Validation.UseChecksum {
		fmt.Printf("Checksum: %s\n", green.Sprint("on"))
	} else {
		fmt.Printf("Checksum: %s\n", red.Sprint("off"))
	}
	fmt.Printf("Minimum Zeros: %s\n", yellow.Sprint(cfg.Search.Validation.MinZeros))
	fmt.Printf("Regex Pattern: %s\n", yellow.Sprint(p.Regex))
	printer.Printf("Step: %d\n", limits.BatchStep)
	printer.Printf("Max Tries: %d\n", limits.MaxAttempts)
	fmt.Printf("Log Interval: %s\n", limits.ProgressInterval)
}

func confirmStart(in io.Reader, out io.Writer) bool {
	fmt.Fprintln(out, "\nAre you sure you want to start with these parameters? (y/n)")
	fmt.Fprint(out, ">>> ")
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(input)) == "y"
}

func newProgressBar(maxAttempts uint64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		clampInt64(maxAttempts),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("searching"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("addr"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

func reportFound(cfg *config.Config, writer *output.Writer, runLog *logpkg.Logger, outcome *types.Outcome, report entropy.Report) {
	r := outcome.Result
	fmt.Println()
	green.Println("Address found!")
	fmt.Printf("Address: %s\n", green.Sprint(r.Address))
	fmt.Printf("Private Key: %s\n", yellow.Sprint(r.PrivateKey))
	printer.Printf("Total attempts: %d\n", r.Attempts)

	if outcome.Verified {
		green.Println("Address verification: PASSED")
	} else {
		red.Println("Address verification: FAILED")
		red.Println("Warning: the generated address does not match the private key!")
	}

	path, err := writer.Save(outcome)
	if err != nil {
		logger.Errorf("saving result: %v", err)
	} else {
		blue.Printf("Address, private key, and attempt count saved to %s in %s\n", filepath.Base(path), writer.Dir())
	}

	fmt.Printf("Estimated entropy: %d bits (%d constrained characters)\n", report.Bits, report.ConstrainedChars)
	fmt.Printf("Estimated time to crack at %.0e guesses/s: %.2e years\n", cfg.Security.Entropy.GuessesPerSecond, report.YearsToCrack)
	fmt.Printf("Note: %s\n", report.Caveat)

	runLog.Printf("Found match! Address: %s, Attempts: %d, Verified: %v", r.Address, r.Attempts, outcome.Verified)
}

// reportProgress advances the bar and logs a rate line on every interval.
func reportProgress(bar *progressbar.ProgressBar, log *logpkg.Logger) minerpkg.ProgressFunc {
	return func(p types.Progress) {
		_ = bar.Set64(clampInt64(p.Attempts))
		log.Printf("Rate: %.2f attempts/sec, Total: %d", p.Rate, p.Attempts)
	}
}

func clampInt64(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
