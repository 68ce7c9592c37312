package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/unprompted/internal/present"
)

const (
	ruleActionRequired = "unprompted/action-required"
	ruleReviewed       = "unprompted/reviewed"
)

// SARIF records critiques and writes them on Close as a SARIF v2.1.0 log.
// Critiques that need action are warnings; the rest are notes unless
// actionOnly is set. Cell output is discarded.
type SARIF struct {
	w          io.Writer
	version    string
	notebook   string
	actionOnly bool
	rec        transcript
}

// NewSARIF creates a SARIF surface. notebook is the artifact URI results
// point at.
func NewSARIF(w io.Writer, version, notebook string, actionOnly bool) *SARIF {
	return &SARIF{w: w, version: version, notebook: notebook, actionOnly: actionOnly}
}

func (s *SARIF) Stdout() io.Writer { return io.Discard }
func (s *SARIF) Stderr() io.Writer { return io.Discard }

func (s *SARIF) Display(v any) error { return nil }

func (s *SARIF) BeginCell(n int, source string) error {
	s.rec.begin(n, source)
	return nil
}

func (s *SARIF) Render(b present.Block) error {
	s.rec.render(b)
	return nil
}

// Close writes the log.
func (s *SARIF) Close() error {
	data, err := json.MarshalIndent(s.build(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(s.w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations,omitempty"`
	Fixes      []sarifFix      `json:"fixes,omitempty"`
	Properties sarifProperties `json:"properties"`
}

type sarifProperties struct {
	Cell   int    `json:"cell"`
	Source string `json:"source"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func (s *SARIF) build() sarifLog {
	rules := []sarifRule{
		{
			ID:               ruleActionRequired,
			Name:             "ActionRequired",
			ShortDescription: sarifMessage{Text: "The reviewer found something in the cell that needs to be done."},
			DefaultConfig:    sarifDefaultConfig{Level: "warning"},
		},
	}
	if !s.actionOnly {
		rules = append(rules, sarifRule{
			ID:               ruleReviewed,
			Name:             "Reviewed",
			ShortDescription: sarifMessage{Text: "The reviewer found nothing to do."},
			DefaultConfig:    sarifDefaultConfig{Level: "note"},
		})
	}

	results := []sarifResult{}
	for _, c := range s.rec.cells {
		for _, b := range c.Blocks {
			if b.Kind != present.KindCritique {
				continue
			}
			if !b.ActionRequired && s.actionOnly {
				continue
			}

			result := sarifResult{
				RuleID:     ruleReviewed,
				Level:      "note",
				Message:    sarifMessage{Text: b.Markdown},
				Properties: sarifProperties{Cell: c.Number, Source: c.Source},
			}
			if b.ActionRequired {
				result.RuleID = ruleActionRequired
				result.Level = "warning"
				result.Fixes = []sarifFix{{Description: sarifMessage{Text: b.Summary}}}
			}
			if s.notebook != "" {
				result.Locations = []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: s.notebook},
					},
				}}
			}
			results = append(results, result)
		}
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "unprompted",
						Version:        s.version,
						InformationURI: "https://github.com/dshills/unprompted",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}
