package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/laconiczk/laconic/backend/spartan"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:     "setup [system.r1cs]",
	Short:   "indexes a constraint system and generates proving and verifying keys",
	Run:     cmdSetup,
	Version: version,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.PersistentFlags().StringVar(&fVkPath, "vk", "", "specifies full path for verifying key")
	setupCmd.PersistentFlags().StringVar(&fPkPath, "pk", "", "specifies full path for proving key")
}

func cmdSetup(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing system path -- laconic setup -h for help")
		os.Exit(-1)
	}
	systemPath := filepath.Clean(args[0])
	systemName := filepath.Base(systemPath)
	systemExt := filepath.Ext(systemName)
	systemName = systemName[0 : len(systemName)-len(systemExt)]

	// default key paths
	vkPath := filepath.Join(".", systemName+".vk")
	pkPath := filepath.Join(".", systemName+".pk")
	if fVkPath != "" {
		vkPath = fVkPath
	}
	if fPkPath != "" {
		pkPath = fPkPath
	}

	system, err := loadSystem(systemPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d constraints\n", "loaded system", systemPath, system.NbConstraints)

	start := time.Now()
	pk, vk, err := spartan.Setup(system)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-30s\n", "setup completed", "", time.Since(start))

	if err := writeFile(vkPath, vk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %s\n", "generated verifying key", vkPath)
	if err := writeFile(pkPath, pk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %s\n", "generated proving key", pkPath)
}
