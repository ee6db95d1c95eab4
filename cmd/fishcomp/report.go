package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/fishcomp/internal/game/composition"
)

// noneArea labels the none bucket in reports.
const noneArea = "none"

type entryReport struct {
	Reward      string  `yaml:"reward"`
	Name        string  `yaml:"name"`
	Precedence  int     `yaml:"precedence"`
	Chance      float64 `yaml:"chance"`
	Probability float64 `yaml:"probability"`
	Value       float64 `yaml:"value"`
	XP          float64 `yaml:"xp"`
}

type areaReport struct {
	Area          string        `yaml:"area"`
	Entries       []entryReport `yaml:"entries"`
	Residual      float64       `yaml:"residual"`
	ExpectedValue float64       `yaml:"expected_value"`
	ExpectedXP    float64       `yaml:"expected_xp"`
}

type locationReport struct {
	QueryID  string       `yaml:"query_id"`
	Location string       `yaml:"location"`
	Areas    []areaReport `yaml:"areas"`
}

func areaLabel(areaID string) string {
	if areaID == "" {
		return noneArea
	}
	return areaID
}

func newAreaReport(r composition.Result) areaReport {
	out := areaReport{
		Area:          areaLabel(r.AreaID),
		Entries:       make([]entryReport, 0, len(r.Entries)),
		Residual:      r.Residual,
		ExpectedValue: r.ExpectedValue(),
		ExpectedXP:    r.ExpectedXP(),
	}
	for _, e := range r.Entries {
		out.Entries = append(out.Entries, entryReport{
			Reward:      e.Candidate.PrimaryID(),
			Name:        e.Candidate.Name(),
			Precedence:  e.Precedence,
			Chance:      e.Chance,
			Probability: e.Probability,
			Value:       e.Value,
			XP:          e.XP,
		})
	}
	return out
}

func newLocationReport(lr composition.LocationResult) locationReport {
	out := locationReport{
		QueryID:  lr.QueryID,
		Location: lr.LocationID,
		Areas:    make([]areaReport, 0, len(lr.Areas)),
	}
	for _, r := range lr.Areas {
		out.Areas = append(out.Areas, newAreaReport(r))
	}
	return out
}

// writeYAML encodes v to w as a YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
