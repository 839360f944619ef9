package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/laconiczk/laconic/backend/spartan"
)

// proveCmd represents the prove command
var proveCmd = &cobra.Command{
	Use:     "prove [system.pk]",
	Short:   "generates a proof from a proving key and a full assignment",
	Run:     cmdProve,
	Version: version,
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.PersistentFlags().StringVar(&fInputPath, "input", "", "specifies full path for assignment file")
	proveCmd.PersistentFlags().StringVar(&fProofPath, "proof", "", "specifies full path for proof")
}

func cmdProve(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing proving key path -- laconic prove -h for help")
		os.Exit(-1)
	}
	pkPath := filepath.Clean(args[0])
	pkName := filepath.Base(pkPath)
	pkExt := filepath.Ext(pkName)
	pkName = pkName[0 : len(pkName)-len(pkExt)]

	// ensure input flag is set and valid
	if fInputPath == "" {
		fmt.Println("please specify assignment file path")
		_ = cmd.Usage()
		os.Exit(-1)
	}
	fInputPath = filepath.Clean(fInputPath)
	if !fileExists(fInputPath) {
		fmt.Println(fInputPath, errNotFound)
		os.Exit(-1)
	}

	// default proof path
	proofPath := filepath.Join(".", pkName+".proof")
	if fProofPath != "" {
		proofPath = fProofPath
	}

	pk := new(spartan.ProvingKey)
	if err := readInto(pkPath, pk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d constraints\n", "loaded proving key", pkPath, pk.Vk.Info.NbConstraints)

	assignment, err := loadAssignment(fInputPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d variables\n", "loaded assignment", fInputPath, len(assignment))

	start := time.Now()
	proof, err := spartan.Prove(pk, assignment)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	duration := time.Since(start)

	if err := writeFile(proofPath, proof); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-30s\n", "generated proof", proofPath, duration)
}
