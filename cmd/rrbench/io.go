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

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/marko-janic/Local-differential-privacy-testing/bench"
	"github.com/marko-janic/Local-differential-privacy-testing/checks"
)

// readBinaryColumn reads the named 0/1 column from a CSV file with a header
// row and returns its values in file order.
func readBinaryColumn(inputFile, column string) ([]int64, error) {
	csvFile, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the csv file = %q, err = %v", inputFile, err)
	}
	defer csvFile.Close()

	r := csv.NewReader(csvFile)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("couldn't read the header of the csv file = %q, err = %v", inputFile, err)
	}
	columnIndex := -1
	for i, name := range header {
		if name == column {
			columnIndex = i
			break
		}
	}
	if columnIndex < 0 {
		return nil, fmt.Errorf("the csv file = %q has no column named %q", inputFile, column)
	}

	values := make([]int64, 0)
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("couldn't read the csv file = %q, err = %v", inputFile, err)
		}
		if columnIndex >= len(record) {
			return nil, fmt.Errorf("line %d of the csv file = %q has no column %d", line, inputFile, columnIndex)
		}
		v, err := strconv.ParseInt(record[columnIndex], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("couldn't read %q = %s as int64 on line %d of the csv file = %q, err = %v",
				column, record[columnIndex], line, inputFile, err)
		}
		if err := checks.CheckBinaryValue(column, v); err != nil {
			return nil, fmt.Errorf("line %d of the csv file = %q: %v", line, inputFile, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// writeSummariesToCSV writes one row per size summary, preceded by a header
// row.
func writeSummariesToCSV(summaries []bench.SizeSummary, outputFile string) error {
	csvFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("couldn't open the csv file = %q, err = %v", outputFile, err)
	}

	writer := csv.NewWriter(csvFile)
	rows := [][]string{{"size", "mean_true_count", "mean_noised_count", "mean_estimated_count", "relative_error", "mean_elapsed_seconds"}}
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Size),
			strconv.FormatFloat(s.MeanTrueCount, 'f', -1, 64),
			strconv.FormatFloat(s.MeanNoisedCount, 'f', -1, 64),
			strconv.FormatFloat(s.MeanEstimatedCount, 'f', -1, 64),
			strconv.FormatFloat(s.RelativeError, 'f', -1, 64),
			strconv.FormatFloat(s.MeanElapsedSeconds, 'f', -1, 64),
		})
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			csvFile.Close()
			return fmt.Errorf("couldn't write to the csv file = %q, err = %v", outputFile, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		csvFile.Close()
		return fmt.Errorf("couldn't write to the csv file = %q, err = %v", outputFile, err)
	}
	return csvFile.Close()
}
