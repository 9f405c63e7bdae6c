// Package spmv computes sparse-matrix / dense-vector products for R1CS-style
// constraint matrices, as produced by Nova/arecibo folding pipelines.
//
// The repository is organized as follows:
//   - sparse: the CSR matrix engine and its parallel multiply
//   - store: keyed (de)serialization of matrix and witness artifacts
//   - cmd/spmv: CLI harness checking A·z, B·z, C·z against recorded results
package spmv

import (
	"github.com/blang/semver/v4"
)

// Version of the artifact format written and read by the store package.
var Version = semver.MustParse("0.2.0")
