package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/logger"
	"github.com/spigell/assessor/internal/services/provisioning"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Log a candidate in once, creating their record if needed",
	Run: func(cmd *cobra.Command, _ []string) {
		email, _ := cmd.Flags().GetString("email")
		provision(email)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.Flags().StringP("email", "e", "", "candidate email; prompted for when empty")
}

func validateEmail(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.New("email cannot be empty")
	}
	if !strings.Contains(input, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label:    "Candidate email",
		Validate: validateEmail,
	}
	email, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(email), nil
}

func provision(email string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if strings.TrimSpace(email) == "" {
		if email, err = promptEmail(); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	} else if err := validateEmail(email); err != nil {
		logger.Fatal("invalid email", zap.Error(err))
	}

	st, err := openStores(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the record store", zap.Error(err))
	}
	defer st.close()

	directory, err := newDirectory(config.HR, logger)
	if err != nil {
		logger.Fatal("configuring the hr directory client", zap.Error(err))
	}

	record, err := provisioning.New(directory, st.records, logger).Provision(ctx, email)
	if err != nil {
		logger.Fatal("provisioning failed", zap.Error(err))
	}

	// do not bother error since the record is plain data
	pretty, _ := json.MarshalIndent(record, "", "  ")
	logger.Info(string(pretty), zap.String("candidate_id", record.CandidateID))
}
