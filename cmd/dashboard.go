package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edusegment/student-cohorts/internal/dashboard"
	"github.com/edusegment/student-cohorts/internal/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard modelFile outputFile",
	Short: "Generate the segmented analytics dashboard JSON document",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("expected exactly two arguments: modelFile outputFile")
		}
		return validateSourceFlags(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fitter, err := model.LoadModel(args[0])
		if err != nil {
			return err
		}

		records, err := loadRecords()
		if err != nil {
			return err
		}

		doc, err := dashboard.New(fitter).Generate(records)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding dashboard document")
		}

		return errors.Wrap(os.WriteFile(args[1], out, 0o644), "writing dashboard document")
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
