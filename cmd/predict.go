package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/edusegment/student-cohorts/internal/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict modelFile outputFile",
	Short: "Assign each student a global cluster and write id,cluster CSV",
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

		labels, err := fitter.PredictGlobal(records)
		if err != nil {
			return err
		}

		fout, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer func() {
			_ = fout.Close()
		}()

		writer := csv.NewWriter(fout)
		for i, r := range records {
			err := writer.Write([]string{strconv.Itoa(r.ID), strconv.Itoa(labels[i])})
			if err != nil {
				return errors.Wrap(err, "writing assignments")
			}
		}
		writer.Flush()

		return errors.Wrap(writer.Error(), "flushing assignments")
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}
