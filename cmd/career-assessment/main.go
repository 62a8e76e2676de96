package main

import (
	"fmt"
	"os"

	"github.com/SAP-F-2025/career-assessment-service/internal/config"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "career-assessment",
		Short:         "RIASEC and MBTI assessment scoring and career matching service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

func loadRuntime() (*config.Config, utils.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := utils.NewDevelopmentLogger()
	if cfg.IsProduction() {
		logger = utils.NewDefaultLogger()
	}
	return cfg, logger, nil
}
