package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirides/wincrop/capture"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List capturable windows",
	Long: `List the top-level windows currently eligible as a capture source:
visible, uncloaked, unminimized, titled windows with a non-empty rect.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	inspector := capture.NewWin32Inspector()
	sources := capture.GetSourceList(inspector, cfg.CaptureOptions())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "HANDLE\tCLASS\tTITLE")
	fmt.Fprintln(w, "------\t-----\t-----")
	for _, s := range sources {
		fmt.Fprintf(w, "0x%08X\t%s\t%s\n", s.Handle, s.ClassName, s.Title)
	}
	return nil
}
