package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/Carmen-Shannon/oxy-stage/engine/sequencer"
	"github.com/Carmen-Shannon/oxy-stage/engine/stage"
	"github.com/spf13/cobra"
)

var checkStrict bool

type checkResult struct {
	Asset    string   `json:"asset"`
	Batches  int      `json:"batches"`
	Resolved int      `json:"resolved"`
	Missing  []string `json:"missing"`
}

var checkCmd = &cobra.Command{
	Use:   "check [asset]",
	Short: "Resolve the configured queue against an asset without playing",
	Long: `Loads the asset, resolves every configured clip name and reports the names
that would be skipped during playback.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when any clip name is missing")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := cfg.Asset.Path
	if len(args) == 1 {
		path = args[0]
	}

	m, err := loader.NewLoader(loader.BackendTypeGLTF).Load(path)
	if err != nil {
		return err
	}

	queue := stage.QueueFromConfig(cfg.Queue)
	report := sequencer.NewResolver().Resolve(queue, m)
	result := checkResult{
		Asset:    path,
		Batches:  queue.Len(),
		Resolved: report.Resolved,
		Missing:  append([]string{}, report.Missing...),
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s: %d batches, %d clips resolved, %d missing\n",
			result.Asset, result.Batches, result.Resolved, len(result.Missing))
		for _, name := range result.Missing {
			fmt.Fprintf(out, "  missing: %s\n", name)
		}
	}

	if checkStrict {
		return report.Err()
	}
	return nil
}
