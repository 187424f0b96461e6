package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "skyplan",
		Short:        "skyplan plans astronomical observing windows",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), windowCmd(), eopCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
