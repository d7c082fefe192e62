package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/edusegment/student-cohorts/internal/cluster"
	"github.com/edusegment/student-cohorts/internal/model"
	"github.com/spf13/cobra"
)

// Flags for training
const (
	FlagClustersGlobal = "clusters-global"
	FlagClustersTurma  = "clusters-turma"
	FlagSeed           = "seed"
	FlagAlgorithm      = "algorithm"
)

var clustersGlobal int
var clustersTurma int
var seed int64
var algorithm string

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train modelFile",
	Short: "Fit the global student partition and save the model artifact",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one argument: modelFile")
		}
		if algorithm != string(cluster.KMeans) && algorithm != string(cluster.KMeansPP) {
			return fmt.Errorf("unknown algorithm %q", algorithm)
		}
		return validateSourceFlags(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}
		log.Printf("loaded %d student records", len(records))

		fitter := model.NewFitter(model.Config{
			NumClustersGlobal: clustersGlobal,
			NumClustersTurma:  clustersTurma,
			Seed:              seed,
			Algorithm:         cluster.AlgorithmType(algorithm),
		})

		metrics, err := fitter.Train(records)
		if err != nil {
			return err
		}

		if err := fitter.SaveModel(args[0]); err != nil {
			return err
		}

		out, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().IntVar(&clustersGlobal, FlagClustersGlobal, model.DefaultNumClustersGlobal,
		"number of global clusters")
	trainCmd.Flags().IntVar(&clustersTurma, FlagClustersTurma, model.DefaultNumClustersTurma,
		"target number of clusters per classroom")
	trainCmd.Flags().Int64Var(&seed, FlagSeed, cluster.DefaultSeed,
		"random seed for reproducible clustering")
	trainCmd.Flags().StringVar(&algorithm, FlagAlgorithm, string(cluster.KMeans),
		"clustering algorithm, one of: kmeans, kmeanspp")
}
