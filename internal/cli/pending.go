package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending entries awaiting confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		waiting, err := pendingStore().Waiting()
		if err != nil {
			return err
		}
		if len(waiting) == 0 {
			fmt.Println("✅ No pending entries right now.")
			return nil
		}

		fmt.Println("📋 Pending Entries:")
		for _, e := range waiting {
			fmt.Printf("%s | %s | %s | queued %s\n",
				e.Symbol, e.EntryCondition, e.Trend, e.SignalTime)
		}
		return nil
	},
}
