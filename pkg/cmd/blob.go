package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/tablevault/pkg/internal/storage/blob"
)

var (
	blobCmd = &cobra.Command{
		Use:   "blob",
		Short: "Blob store related commands",
	}

	blobListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered blob backends",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered blob backends:")
			for _, b := range blob.GetRegisteredBackends() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(b))
			}
		},
	}
)

// registerBlobCommands 注册 Blob 相关命令.
func registerBlobCommands() {
	rootCmd.AddCommand(blobCmd)
	blobCmd.AddCommand(blobListCmd)
}
