package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-stage/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	jsonOut bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "oxy-stage",
	Short: "Play a looping, audio-synchronized animation sequence",
	Long: `oxy-stage loads an animated glTF scene, plays its configured queue of clips
in sync with a soundtrack and loops the queue for as long as playback is on.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./oxy-stage.toml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func execute(args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}
