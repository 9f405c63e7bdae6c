package main

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/spmv/logger"
	"github.com/consensys/spmv/sparse"
	"github.com/consensys/spmv/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	fDataDir   string
	fWitnesses int
	fNbTasks   int
)

var checkCmd = &cobra.Command{
	Use:   "check <hash>",
	Short: "recompute A·z, B·z, C·z for each recorded witness and compare against the recorded results",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&fDataDir, "data-dir", "", "data root (defaults to ~/"+store.DataDir+")")
	checkCmd.Flags().IntVar(&fWitnesses, "witnesses", 16, "number of recorded witnesses to replay")
	checkCmd.Flags().IntVar(&fNbTasks, "tasks", 0, "number of parallel workers (0 = all CPUs)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	hash := args[0]
	log := logger.Logger()

	cfg, err := store.NewConfig(fDataDir)
	if err != nil {
		return err
	}
	log.Info().Str("root", cfg.Root()).Str("hash", hash).Msg("replaying recorded witnesses")

	matrices, err := readMatrices(cfg, hash)
	if err != nil {
		return err
	}

	var opts []sparse.Option
	if fNbTasks > 0 {
		opts = append(opts, sparse.WithNbTasks(fNbTasks))
	}

	for i := 0; i < fWitnesses; i++ {
		witness, err := cfg.ReadVector(store.WitnessSection(hash), fmt.Sprintf("_%d", i))
		if err != nil {
			return err
		}

		for _, p := range []string{"AZ", "BZ", "CZ"} {
			m := matrices[p[:1]]
			got := timed(log, i, p, func() []fr.Element {
				return m.MultiplyVec(witness, opts...)
			})

			expected, err := cfg.ReadVector(store.ResultSection(hash), fmt.Sprintf("%s_%d", p, i))
			if err != nil {
				return err
			}
			if !sparse.VecEqual(got, []fr.Element(expected)) {
				return fmt.Errorf("%s mismatch for witness %d", p, i)
			}
		}
	}

	log.Info().Int("witnesses", fWitnesses).Msg("all products match recorded results")
	return nil
}

func readMatrices(cfg store.Config, hash string) (map[string]*store.Matrix, error) {
	section := store.MatrixSection(hash)
	res := make(map[string]*store.Matrix, 3)
	for _, name := range []string{"A", "B", "C"} {
		m, err := cfg.ReadMatrix(section, name+"_0")
		if err != nil {
			return nil, err
		}
		res[name] = m
	}
	return res, nil
}

func timed(log zerolog.Logger, witness int, product string, f func() []fr.Element) []fr.Element {
	start := time.Now()
	res := f()
	log.Info().Int("witness", witness).Str("product", product).Dur("took", time.Since(start)).Msg("multiply")
	return res
}
