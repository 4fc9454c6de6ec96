package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/stats"
)

type ExportData struct {
	Model        string             `json:"model"`
	Integrator   string             `json:"integrator"`
	Beta         float64            `json:"beta"`
	Gamma        float64            `json:"gamma"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Samples      int                `json:"samples"`
	Compartments []string           `json:"compartments"`
	Times        []float64          `json:"times"`
	States       [][]float64        `json:"states"`
	Metrics      map[string]float64 `json:"metrics"`
	Sentinels    []string           `json:"sentinels,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// ExportJSON writes a full trajectory plus statistics to w.
func ExportJSON(w io.Writer, meta *RunMetadata, result *epi.Result, record *stats.Record) error {
	data := ExportData{
		Model:        meta.Model,
		Integrator:   meta.Integrator,
		Beta:         meta.Beta,
		Gamma:        meta.Gamma,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Samples:      len(result.Times),
		Compartments: meta.Compartments,
		Times:        result.Times,
		States:       make([][]float64, len(result.States)),
		Metrics:      make(map[string]float64),
	}

	for i, s := range result.States {
		data.States[i] = s
	}

	if record != nil {
		for _, name := range record.Order {
			v := record.Metrics[name]
			if v.Defined {
				data.Metrics[name] = v.Num
			} else {
				data.Sentinels = append(data.Sentinels, name)
			}
		}
	}
	for _, warn := range result.Warnings {
		data.Warnings = append(data.Warnings, warn.String())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONStdout is ExportJSON to standard output.
func ExportJSONStdout(meta *RunMetadata, result *epi.Result, record *stats.Record) error {
	return ExportJSON(os.Stdout, meta, result, record)
}
