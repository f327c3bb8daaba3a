package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/erosion/internal/dynamo"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Steps   int             `json:"steps"`
	Samples []dynamo.Sample `json:"samples"`
}

func ExportJSON(path string, meta *RunMetadata, samples []dynamo.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeJSON(file, meta, samples)
}

// EncodeJSON writes an indented export document to w, typically os.Stdout.
func EncodeJSON(w io.Writer, meta *RunMetadata, samples []dynamo.Sample) error {
	data := ExportData{
		Run:     *meta,
		Steps:   len(samples),
		Samples: samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
