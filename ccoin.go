package main

import (
	"os"

	"github.com/inscription-c/ccoin/compose"
	"github.com/inscription-c/ccoin/config"
	"github.com/inscription-c/ccoin/log"
	"github.com/inscription-c/ccoin/scan"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var (
	cfg = config.Default()

	rootCmd = &cobra.Command{
		Use:           "ccoin",
		Short:         "ccoin colored coin tools: scan color data, read color values and compose colored transactions.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd.Flags()); err != nil {
				return err
			}
			log.InitLogRotator(cfg.LogFile())
			return log.SetLogLevels(cfg.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}
)

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.AddCommand(scan.NewCmd(cfg))
	rootCmd.AddCommand(scan.NewColorValueCmd(cfg))
	rootCmd.AddCommand(compose.NewIssueCmd(cfg))
	rootCmd.AddCommand(compose.NewSendCmd(cfg))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Close()
		os.Exit(1)
	}
}
