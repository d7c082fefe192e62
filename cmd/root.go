package cmd

import (
	"fmt"
	"os"

	"github.com/edusegment/student-cohorts/internal/datasource"
	"github.com/edusegment/student-cohorts/pkg/core"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global Flags
const (
	FlagDataCSV     = "data-csv"
	FlagDatabaseDSN = "database-dsn"
)

var cfgFile string
var dataCSV string
var databaseDSN string

var rootCmd = &cobra.Command{
	Use:   "student-cohorts",
	Short: "Segment students into socioeconomic/performance cohorts",
	Long: "student-cohorts fits a k-means partition over per-student socioeconomic and\n" +
		"academic features, both globally and per classroom, and aggregates the result\n" +
		"into the segmented analytics dashboard document. Records are read from a CSV\n" +
		"file (--data-csv) or from the student database (--database-dsn).",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.student-cohorts.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataCSV, FlagDataCSV, "",
		"path of the student records CSV file")
	rootCmd.PersistentFlags().StringVar(&databaseDSN, FlagDatabaseDSN, "",
		"Postgres DSN of the student records database, used instead of a CSV file")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".student-cohorts")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// validateSourceFlags rejects invocations without exactly one record
// source.
func validateSourceFlags(*cobra.Command, []string) error {
	if dataCSV == "" && databaseDSN == "" {
		return fmt.Errorf("either --%s or --%s must be set", FlagDataCSV, FlagDatabaseDSN)
	}
	if dataCSV != "" && databaseDSN != "" {
		return fmt.Errorf("--%s and --%s are mutually exclusive", FlagDataCSV, FlagDatabaseDSN)
	}
	return nil
}

func loadRecords() ([]core.StudentRecord, error) {
	var source datasource.RecordSource
	if databaseDSN != "" {
		var err error
		source, err = datasource.NewDBSource(databaseDSN)
		if err != nil {
			return nil, err
		}
	} else {
		source = datasource.NewCSVSource(dataCSV)
	}

	return source.Read()
}
