//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// This is a command line utility that benchmarks randomized response over a
// binary column of a CSV dataset.
// Usage example:
// go run ./cmd/rrbench --input_file=dataset/features.csv --column=HvyAlcoholConsump --epsilon=1.0 --output_file=results.csv
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/marko-janic/Local-differential-privacy-testing/bench"
)

var (
	inputFile  = flag.String("input_file", "", "Input csv file name with raw data.")
	column     = flag.String("column", "HvyAlcoholConsump", "Name of the binary column to benchmark.")
	epsilon    = flag.Float64("epsilon", bench.DefaultEpsilon, "Privacy parameter epsilon, must be strictly positive.")
	sizes      = flag.String("sizes", "", "Comma-separated input sizes to benchmark. Defaults to 1000,10000,30000,50000,100000,150000 plus the full column length.")
	trials     = flag.Int("trials", bench.DefaultTrials, "Number of trials averaged per input size.")
	outputFile = flag.String("output_file", "", "Optional output csv file name for the size summaries.")
)

var defaultSizes = []int{1000, 10000, 30000, 50000, 100000, 150000}

func main() {
	flag.Parse()

	log.Infof("The benchmark was run with arguments: inputFile = %q, column = %q,"+
		" epsilon = %f, sizes = %q, trials = %d, outputFile = %q",
		*inputFile, *column, *epsilon, *sizes, *trials, *outputFile)

	if *inputFile == "" {
		log.Exit("No input file was chosen")
	}

	values, err := readBinaryColumn(*inputFile, *column)
	if err != nil {
		log.Exitf("Couldn't read column %q, err = %v", *column, err)
	}
	log.Infof("Read %d binary observations from column %q", len(values), *column)

	requestedSizes, err := parseSizes(*sizes, len(values))
	if err != nil {
		log.Exitf("Couldn't parse sizes, err = %v", err)
	}

	summaries, err := bench.Run(values, &bench.Config{
		Epsilon: *epsilon,
		Sizes:   requestedSizes,
		Trials:  *trials,
	})
	if err != nil {
		log.Exitf("Couldn't execute the benchmark, err = %v", err)
	}

	printReport(*column, summaries)

	if *outputFile != "" {
		if err := writeSummariesToCSV(summaries, *outputFile); err != nil {
			log.Exitf("Couldn't write results, err = %v", err)
		}
		log.Infof("Wrote %d size summaries to %q", len(summaries), *outputFile)
	}
}

// parseSizes turns the sizes flag into the list of requested input sizes.
// When the flag is empty, the default size progression plus the full column
// length is used.
func parseSizes(flagValue string, columnLength int) ([]int, error) {
	if flagValue == "" {
		sizes := append([]int{}, defaultSizes...)
		alreadyRequested := false
		for _, size := range sizes {
			if size == columnLength {
				alreadyRequested = true
				break
			}
		}
		if columnLength > 0 && !alreadyRequested {
			sizes = append(sizes, columnLength)
		}
		return sizes, nil
	}
	parts := strings.Split(flagValue, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("couldn't parse size %q: %v", part, err)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func printReport(column string, summaries []bench.SizeSummary) {
	for _, s := range summaries {
		fmt.Printf("Size: %d\n", s.Size)
		fmt.Printf("Mean original count of %s == 1: %f\n", column, s.MeanTrueCount)
		fmt.Printf("Mean noised count of %s == 1: %f\n", column, s.MeanNoisedCount)
		fmt.Printf("Mean denoised count of %s == 1: %f\n", column, s.MeanEstimatedCount)
		fmt.Printf("Relative error: %f\n", s.RelativeError)
		fmt.Printf("Mean runtime: %f\n\n", s.MeanElapsedSeconds)
	}
}
