package cmd

import (
	"fmt"

	"careercoach/internal/logger"
	"careercoach/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data (resumes, roadmaps, assessments, interviews, portfolios)",
	RunE:  reset,
}

func init() {
	resetCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func reset(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	dbPath := defaultDatabasePath
	if config.Database != nil && config.Database.Path != "" {
		dbPath = config.Database.Path
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Delete ALL data in %s?", dbPath),
			Items: []string{"No", "Yes"},
		}
		_, answer, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if answer != "Yes" {
			log.Info("reset aborted")
			return nil
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	if err := st.Reset(); err != nil {
		return err
	}

	log.Info("all data deleted", zap.String("path", dbPath))
	return nil
}
