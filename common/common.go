package common

import (
	"encoding/csv"
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// marshal data structure to JSON
func ToJSON(x interface{}) []byte {
	bytes, err := json.MarshalIndent(x, "", "\t")
	if err != nil {
		log.Fatalf("[common] error marshaling %T to JSON: %v", x, err)
	}
	return bytes
}

// read JSON from file, unmarshal into data structure
func FromFile(path string, x interface{}) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("[common] error reading file %s: %v", path, err)
	}
	if err := json.Unmarshal(bytes, x); err != nil {
		log.Fatalf(
			"[common] error unmarshaling json to output struct %T: %v (%s)",
			x,
			err,
			path,
		)
	}
}

// read YAML from file, unmarshal into data structure
func FromYAMLFile(path string, x interface{}) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("[common] error reading file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(bytes, x); err != nil {
		log.Fatalf(
			"[common] error unmarshaling yaml to output struct %T: %v (%s)",
			x,
			err,
			path,
		)
	}
}

// marshal data structure to JSON, write to file
func ToFile(path string, x interface{}) {
	bytes := ToJSON(x)
	if err := os.WriteFile(path, bytes, 0644); err != nil {
		log.Fatalf("[common] error writing struct %T to file: %v", x, err)
	}
}

// create CSV writer
func CreateCSVWriter(path string) *csv.Writer {
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("[common] error creating CSV writer: %v", err)
	}

	return csv.NewWriter(file)
}

// get min/max of []float64 slice
func GetMinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min := x[0]
	max := x[0]
	for _, a := range x {
		if a > max {
			max = a
		}
		if a < min {
			min = a
		}
	}
	return min, max
}
