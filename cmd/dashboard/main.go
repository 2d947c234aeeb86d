package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/better-analytics/dashboard/internal/cli/common"
	"github.com/better-analytics/dashboard/internal/cli/dashcmd"
)

func main() {
	root := &cobra.Command{Use: "dashboard", Short: "Better Analytics dashboard CLI"}

	root.AddCommand(dashcmd.NewServe())
	root.AddCommand(dashcmd.NewWorker())

	// completion
	comp := &cobra.Command{Use: "completion [bash|zsh|fish|powershell]", Short: "Generate shell completion"}
	comp.Run = func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			log.Fatalf("specify a shell: bash|zsh|fish|powershell")
		}
		switch args[0] {
		case "bash":
			root.GenBashCompletion(os.Stdout)
		case "zsh":
			root.GenZshCompletion(os.Stdout)
		case "fish":
			root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			root.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			log.Fatalf("unknown shell: %s", args[0])
		}
	}
	root.AddCommand(comp)

	// config test (minimal validation)
	cfgTest := &cobra.Command{Use: "config-test", Short: "Validate a config file"}
	var cfgFile, section string
	cfgTest.Flags().StringVar(&cfgFile, "config", "", "config file path")
	cfgTest.Flags().StringVar(&section, "section", "", "optional section: serve|worker")
	cfgTest.RunE = func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("--config required")
		}
		v := viper.New()
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		switch section {
		case "serve":
			return common.ValidateServeConfig(v, true)
		case "worker":
			return common.ValidateWorkerConfig(v)
		case "":
			if err := common.ValidateServeConfig(v, true); err == nil {
				fmt.Println("serve config OK")
				return nil
			}
			if err := common.ValidateWorkerConfig(v); err == nil {
				fmt.Println("worker config OK")
				return nil
			}
			return fmt.Errorf("no valid section found; specify --section")
		default:
			return fmt.Errorf("unknown section: %s", section)
		}
	}
	root.AddCommand(cfgTest)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
