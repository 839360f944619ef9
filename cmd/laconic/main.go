// laconic is a CLI tool to index constraint systems, generate proofs and
// verify them, operating on serialized files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"github.com/laconiczk/laconic"
	"github.com/laconiczk/laconic/r1cs"
)

var version = laconic.Version.String()

var rootCmd = &cobra.Command{
	Use:     "laconic",
	Short:   "laconic is a transparent proof system for R1CS",
	Version: version,
}

// flag variables shared by the subcommands
var (
	fPkPath    string
	fVkPath    string
	fProofPath string
	fInputPath string
)

var errNotFound = errors.New("file not found")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func loadSystem(path string) (*r1cs.System, error) {
	if !fileExists(path) {
		return nil, errNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	system := new(r1cs.System)
	if _, err := system.ReadFrom(f); err != nil {
		return nil, err
	}
	return system, nil
}

func loadAssignment(path string) ([]fr.Element, error) {
	if !fileExists(path) {
		return nil, errNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r1cs.ReadAssignment(f)
}

func readInto(path string, object io.ReaderFrom) error {
	if !fileExists(path) {
		return errNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = object.ReadFrom(f)
	return err
}

func writeFile(path string, object io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := object.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
