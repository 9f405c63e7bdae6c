// Package store locates and (de)serializes the sparse-matrix and witness
// artifacts dumped by the upstream folding pipeline.
//
// Artifacts live under a per-user data root and are addressed by a two-level
// key: a section directory (one per artifact kind and circuit hash) and a
// label naming the artifact inside it. Missing sections or labels are hard
// errors; there is no partial or fallback loading.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/spmv/internal/ioutils"
	"github.com/consensys/spmv/logger"
	"github.com/consensys/spmv/sparse"
)

// DataDir is the name of the data root directory, relative to the user home
// directory. The layout matches upstream arecibo dumps.
const DataDir = ".arecibo_data"

// Matrix is the engine instantiated over the bn254 scalar field, the field
// the upstream pipeline operates in.
type Matrix = sparse.SparseMatrix[fr.Element, *fr.Element]

// Section names, one directory per circuit hash.
func MatrixSection(hash string) string  { return "sparse_matrices_" + hash }
func WitnessSection(hash string) string { return "witness_" + hash }
func ResultSection(hash string) string  { return "result_" + hash }

// Config points the store at a data root.
type Config struct {
	root string
}

// NewConfig returns a Config rooted at root. If root is empty, it defaults to
// DataDir under the user home directory, created if missing.
func NewConfig(root string) (Config, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("locating home directory: %w", err)
		}
		root = filepath.Join(home, DataDir)
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return Config{}, fmt.Errorf("creating data root: %w", err)
	}
	return Config{root: root}, nil
}

// Root returns the data root directory.
func (c Config) Root() string {
	return c.root
}

// path resolves a (section, label) key, failing if either does not exist.
func (c Config) path(section, label string) (string, error) {
	sectionPath := filepath.Join(c.root, section)
	if _, err := os.Stat(sectionPath); err != nil {
		return "", fmt.Errorf("section directory does not exist: %s", sectionPath)
	}
	filePath := filepath.Join(sectionPath, label)
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("data file does not exist: %s", filePath)
	}
	return filePath, nil
}

// ReadMatrix reads the sparse matrix stored under (section, label).
func (c Config) ReadMatrix(section, label string) (*Matrix, error) {
	filePath, err := c.path(section, label)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	m, _, err := matrixFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}
	return m, nil
}

// WriteMatrix stores m under (section, label), creating the section directory
// if needed.
func (c Config) WriteMatrix(section, label string, m *Matrix) error {
	data, err := matrixToBytes(m)
	if err != nil {
		return err
	}
	return c.writeFile(section, label, data)
}

// ReadVector reads the dense vector stored under (section, label).
func (c Config) ReadVector(section, label string) (fr.Vector, error) {
	filePath, err := c.path(section, label)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	rc := ioutils.ReaderCounter{R: f}
	var v fr.Vector
	if _, err := v.ReadFrom(&rc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}
	log := logger.Logger()
	log.Debug().Str("file", filePath).Int64("bytes", rc.N).Int("len", len(v)).Msg("read vector")
	return v, nil
}

// WriteVector stores v under (section, label), creating the section directory
// if needed.
func (c Config) WriteVector(section, label string, v fr.Vector) error {
	sectionPath := filepath.Join(c.root, section)
	if err := os.MkdirAll(sectionPath, 0o700); err != nil {
		return fmt.Errorf("creating section directory: %w", err)
	}
	filePath := filepath.Join(sectionPath, label)
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	wc := ioutils.WriterCounter{W: f}
	if _, err := v.WriteTo(&wc); err != nil {
		return err
	}
	log := logger.Logger()
	log.Debug().Str("file", filePath).Int64("bytes", wc.N).Int("len", len(v)).Msg("wrote vector")
	return nil
}

func (c Config) writeFile(section, label string, data []byte) error {
	sectionPath := filepath.Join(c.root, section)
	if err := os.MkdirAll(sectionPath, 0o700); err != nil {
		return fmt.Errorf("creating section directory: %w", err)
	}
	return os.WriteFile(filepath.Join(sectionPath, label), data, 0o600)
}
