package cmd

import (
	"fmt"
	"os"

	"github.com/getveil/veil/internal"
	"github.com/getveil/veil/pkg/testutils"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
)

var (
	log *logrus.Logger

	cfgFile       string
	showVersion   bool
	dumpConfig    bool
	generateKey   bool
	generateToken bool
)

var cmd = &cobra.Command{
	Use:   "veil",
	Short: "veil detects and anonymizes PII in text, with reversible mappings and an anonymized LLM round trip",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test utilities",
}

var createFixturesCmd = &cobra.Command{
	Use:   "create-fixtures",
	Short: "Create sample PII documents for testing",
	Run: func(cmd *cobra.Command, args []string) {
		fixtureCount, _ := cmd.Flags().GetInt("count")
		outputDir, _ := cmd.Flags().GetString("outputDir")
		if err := testutils.GenerateFixtureData(fixtureCount, outputDir); err != nil {
			log.Fatalf("Failed to create fixtures: %v", err)
		}
		fmt.Println("Fixtures created successfully.")
	},
}

func init() {
	testCmd.AddCommand(createFixturesCmd)
	cmd.AddCommand(testCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateKey, "generate-key", "k", false, "generate a new mapping encryption key")
	cmd.PersistentFlags().
		BoolVarP(&generateToken, "generate-token", "g", false, "generate a new JWT token")

	createFixturesCmd.Flags().Int("count", 25, "Number of sample documents to generate")
	createFixturesCmd.Flags().String("outputDir", "./test_data", "Path to output fixtures")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
