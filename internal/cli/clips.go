package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/spf13/cobra"
)

type clipInfo struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Duration float32 `json:"duration"`
	Channels int     `json:"channels"`
}

var clipsCmd = &cobra.Command{
	Use:   "clips [asset]",
	Short: "List the animation clips of an asset",
	Long:  `Lists every animation clip in the asset (default: the configured asset) in file order.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClips,
}

func init() {
	rootCmd.AddCommand(clipsCmd)
}

func runClips(cmd *cobra.Command, args []string) error {
	path := cfg.Asset.Path
	if len(args) == 1 {
		path = args[0]
	}

	m, err := loader.NewLoader(loader.BackendTypeGLTF).Load(path)
	if err != nil {
		return err
	}

	clips := make([]clipInfo, 0, m.AnimationCount())
	for i, c := range m.Animations() {
		clips = append(clips, clipInfo{Index: i, Name: c.Name, Duration: c.Duration, Channels: len(c.Channels)})
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(clips)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tDURATION\tCHANNELS")
	for _, c := range clips {
		fmt.Fprintf(w, "%d\t%s\t%.3fs\t%d\n", c.Index, c.Name, c.Duration, c.Channels)
	}
	return w.Flush()
}
