package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/coreops/configuration"
	"github.com/fulldump/coreops/pipeline"
)

func printUsage(prog string) {
	fmt.Fprintf(os.Stderr, "Usage: %s <N_generators> <total_records> <output_path>\n", prog)
}

func main() {
	if len(os.Args) != 4 {
		printUsage(os.Args[0])
		os.Exit(1)
	}

	generators, errN := strconv.Atoi(os.Args[1])
	total, errTotal := strconv.Atoi(os.Args[2])
	outputPath := os.Args[3]

	if errN != nil || errTotal != nil || generators <= 0 || total <= 0 {
		fmt.Fprintln(os.Stderr, "ERROR: N_generators and total_records must be positive integers.")
		printUsage(os.Args[0])
		os.Exit(1)
	}

	tuning := configuration.DefaultPipelineTuning()
	goconfig.Read(tuning)

	logger := log.New(os.Stdout, "GEN: ", log.LstdFlags)

	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not create output file: %s\n", err)
		os.Exit(1)
	}
	defer out.Close()

	result, err := pipeline.RunWithInterrupt(generators, total, out, tuning, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	if tuning.PrintSummary {
		fmt.Printf("OK: generated %d records in '%s' using %d generators.\n", result.TotalWritten, outputPath, result.Generators)
	}
}
