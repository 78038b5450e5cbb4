// Command gen-dataset writes a synthetic surveillance extract as CSV,
// optionally seeded with known defects for exercising the QC battery.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/mkanyama/hdssqc/internal/adapters/dataset"
	"github.com/mkanyama/hdssqc/internal/synthdata"
)

// Default configuration constants.
const (
	defaultIndividuals = 500
	defaultSeed        = 1
)

func main() {
	var (
		individuals    = flag.Int("individuals", defaultIndividuals, "Number of enumerated individuals")
		seed           = flag.Int64("seed", defaultSeed, "Random seed for reproducible output")
		output         = flag.String("output", "", "Output file (default: stdout)")
		maleDeliveries = flag.Int("male-deliveries", 0, "Delivery records to inject on male subjects")
		danglingBirths = flag.Int("dangling-births", 0, "Birth records with no matching delivery")
	)
	flag.Parse()

	table, err := synthdata.Generate(synthdata.Config{
		Individuals:    *individuals,
		Seed:           *seed,
		MaleDeliveries: *maleDeliveries,
		DanglingBirths: *danglingBirths,
	})
	if err != nil {
		os.Stderr.WriteString("failed to generate dataset: " + err.Error() + "\n")
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			os.Stderr.WriteString("failed to create output file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := dataset.WriteCSV(w, table); err != nil {
		os.Stderr.WriteString("failed to write dataset: " + err.Error() + "\n")
		os.Exit(1)
	}
}
