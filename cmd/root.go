package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	cfgpkg "github.com/KaramelBytes/limnoplot/internal/config"
	"github.com/KaramelBytes/limnoplot/internal/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	profilesFile string
	debug        bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "limnoplot",
	Short: "limnoplot: lake trophic-state summaries, fits and charts",
	Long: `limnoplot loads lake survey tables (CSV/TSV/XLSX), averages the trophic-state
indices per site, fits a least-squares line between two of them and renders an
annotated chart with the trophic category bands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.limnoplot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profilesFile, "profiles", "", "YAML file with extra profiles (overrides profiles_file)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	if err := log.Init(debug); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to init logger: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		log.Warnw("failed to load config", "path", cfgFile, "error", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration, loading it on first use.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// userProfiles loads the profiles named by --profiles or profiles_file.
func userProfiles() ([]analysis.Profile, error) {
	path := profilesFile
	if path == "" {
		c, err := currentConfig()
		if err != nil {
			return nil, err
		}
		path = c.ProfilesFile
	}
	return cfgpkg.LoadProfiles(path)
}
