package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/laconiczk/laconic/backend/spartan"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:     "verify [proof]",
	Short:   "verifies a proof against a verifying key and a public input",
	Run:     cmdVerify,
	Version: version,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.PersistentFlags().StringVar(&fVkPath, "vk", "", "specifies full path for verifying key")
	verifyCmd.PersistentFlags().StringVar(&fInputPath, "input", "", "specifies full path for public input file")

	_ = verifyCmd.MarkPersistentFlagRequired("vk")
	_ = verifyCmd.MarkPersistentFlagRequired("input")
}

func cmdVerify(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing proof path -- laconic verify -h for help")
		os.Exit(-1)
	}
	proofPath := filepath.Clean(args[0])

	// ensure vk and input flags are set and valid
	if fVkPath == "" {
		fmt.Println("please specify verifying key path")
		_ = cmd.Usage()
		os.Exit(-1)
	}
	if fInputPath == "" {
		fmt.Println("please specify public input file path")
		_ = cmd.Usage()
		os.Exit(-1)
	}
	fVkPath = filepath.Clean(fVkPath)
	if !fileExists(fVkPath) {
		fmt.Println(fVkPath, errNotFound)
		os.Exit(-1)
	}
	fInputPath = filepath.Clean(fInputPath)
	if !fileExists(fInputPath) {
		fmt.Println(fInputPath, errNotFound)
		os.Exit(-1)
	}

	vk := new(spartan.VerifyingKey)
	if err := readInto(fVkPath, vk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	publicInput, err := loadAssignment(fInputPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d inputs\n", "loaded public input", fInputPath, len(publicInput))

	proof := new(spartan.Proof)
	if err := readInto(proofPath, proof); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	start := time.Now()
	if err := spartan.Verify(vk, proof, publicInput); err != nil {
		fmt.Printf("%-30s %-30s %-30s\n", "proof is invalid", proofPath, time.Since(start))
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-30s\n", "proof is valid", proofPath, time.Since(start))
}
