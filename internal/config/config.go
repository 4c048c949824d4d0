// Package config carries the benchmark parameters. The statistical
// configuration is fixed and embedded (this is a one-shot reproducible
// experiment, not a tunable service); only ambient knobs such as the
// output path and trial parallelism respond to the environment.
package config

import (
	"os"
	"strconv"

	"knockoffbench/internal/errors"
)

// Config represents the complete benchmark configuration
type Config struct {
	Data   DataConfig
	Study  StudyConfig
	Output OutputConfig
}

// DataConfig holds the synthetic problem parameters
type DataConfig struct {
	Samples         int     // n
	Covariates      int     // p
	Correlation     float64 // Toeplitz rho
	SignalCount     int     // k
	CovariateSeed   int64   // drives the design matrix
	CoefficientSeed int64   // drives coefficients, shuffle, and noise
}

// StudyConfig holds the trial parameters
type StudyConfig struct {
	Trials         int    // knockoff Monte-Carlo trials
	CVFolds        int    // Lasso cross-validation folds
	Statistic      string // knockoff construction variant
	ReportLevel    float64
	ParallelTrials bool
	TrialWorkers   int
}

// OutputConfig holds report/figure settings
type OutputConfig struct {
	FigurePath string
	// PinnedFingerprint, when set, must match the run manifest's
	// parameter fingerprint. It guards replays against parameter drift.
	PinnedFingerprint string
}

// Default returns the reference configuration: n=500, p=1000, rho=0.4,
// k=50, 10 trials, 10-fold CV, seeds 2022 and 123.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Samples:         500,
			Covariates:      1000,
			Correlation:     0.4,
			SignalCount:     50,
			CovariateSeed:   2022,
			CoefficientSeed: 123,
		},
		Study: StudyConfig{
			Trials:      10,
			CVFolds:     10,
			Statistic:   "mvr",
			ReportLevel: 0.10,
		},
		Output: OutputConfig{
			FigurePath: "knockoffs_vs_lasso.png",
		},
	}
}

// Load returns the default configuration with ambient environment
// overrides applied, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Output.FigurePath = getEnvOrDefault("FIGURE_PATH", cfg.Output.FigurePath)
	cfg.Output.PinnedFingerprint = getEnvOrDefault("PINNED_FINGERPRINT", cfg.Output.PinnedFingerprint)
	cfg.Study.ParallelTrials = getEnvBoolOrDefault("PARALLEL_TRIALS", cfg.Study.ParallelTrials)
	cfg.Study.TrialWorkers = getEnvIntOrDefault("TRIAL_WORKERS", cfg.Study.TrialWorkers)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks the configuration describes a runnable benchmark.
func (c *Config) Validate() error {
	if c.Data.SignalCount > c.Data.Covariates {
		return errors.ConfigInvalid("signal count k cannot exceed covariate count p")
	}
	if c.Data.Correlation <= -1 || c.Data.Correlation >= 1 {
		return errors.ConfigInvalid("correlation rho must lie in (-1, 1)")
	}
	if c.Study.Trials <= 0 {
		return errors.ConfigInvalid("trial count must be positive")
	}
	if c.Study.CVFolds < 2 {
		return errors.ConfigInvalid("cross-validation needs at least 2 folds")
	}
	if c.Output.FigurePath == "" {
		return errors.ConfigInvalid("figure path cannot be empty")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
