// Package cli implements the abstractions command line interface. The
// commands are thin callers of the core packages: they build graphs,
// feed them through a history tracker and render the results.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Mistobaan/Abstractions/history"
	"github.com/Mistobaan/Abstractions/internal/colors"
)

var rootCmd = &cobra.Command{
	Use:   "abstractions",
	Short: "Entity graph change tracking with git-like history",
	Long: `Abstractions tracks structural changes to entity graphs the way git
tracks files: mutations emit events, events accumulate into commits, and
commits form a browsable history with branches, ancestors and diffs.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .abstractions.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(replayCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".abstractions")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ABSTRACTIONS")
	viper.AutomaticEnv()
	viper.SetDefault("auto_commit", false)
	viper.SetDefault("threshold", history.DefaultAutoCommitThreshold)

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()

	if noColor, _ := rootCmd.Flags().GetBool("no-color"); noColor {
		colors.SetColorEnabled(false)
	}
}
