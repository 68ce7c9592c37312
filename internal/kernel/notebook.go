package kernel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultLanguage = "sh"

// Cell is one unit of source text.
type Cell struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
}

// Notebook is an ordered list of cells.
type Notebook struct {
	Path     string `yaml:"-"`
	Language string `yaml:"language"`
	Cells    []Cell `yaml:"cells"`
}

// Load reads a notebook from path. Files ending in .ipynb are parsed as
// Jupyter notebooks, everything else as YAML.
func Load(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening notebook: %w", err)
	}
	defer f.Close()

	var nb *Notebook
	if strings.EqualFold(filepath.Ext(path), ".ipynb") {
		nb, err = LoadIPYNB(f)
	} else {
		nb, err = LoadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nb.Path = path
	return nb, nil
}

// LoadYAML parses a YAML notebook:
//
//	language: sh
//	cells:
//	  - id: hello
//	    source: echo hello
func LoadYAML(r io.Reader) (*Notebook, error) {
	var nb Notebook
	if err := yaml.NewDecoder(r).Decode(&nb); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty notebook")
		}
		return nil, fmt.Errorf("parsing yaml notebook: %w", err)
	}
	nb.fill()
	return &nb, nil
}

type ipynbSource string

func (s *ipynbSource) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = ipynbSource(strings.Join(lines, ""))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cell source must be a string or list of strings: %w", err)
	}
	*s = ipynbSource(str)
	return nil
}

type ipynbFile struct {
	Metadata struct {
		Kernelspec struct {
			Language string `json:"language"`
		} `json:"kernelspec"`
		LanguageInfo struct {
			Name string `json:"name"`
		} `json:"language_info"`
	} `json:"metadata"`
	Cells []struct {
		CellType string      `json:"cell_type"`
		ID       string      `json:"id"`
		Source   ipynbSource `json:"source"`
	} `json:"cells"`
}

// LoadIPYNB parses the code cells of a Jupyter notebook. Markdown and raw
// cells are skipped.
func LoadIPYNB(r io.Reader) (*Notebook, error) {
	var f ipynbFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing ipynb: %w", err)
	}

	nb := &Notebook{Language: f.Metadata.Kernelspec.Language}
	if nb.Language == "" {
		nb.Language = f.Metadata.LanguageInfo.Name
	}
	for _, c := range f.Cells {
		if c.CellType != "code" {
			continue
		}
		nb.Cells = append(nb.Cells, Cell{ID: c.ID, Source: string(c.Source)})
	}
	nb.fill()
	return nb, nil
}

func (nb *Notebook) fill() {
	if nb.Language == "" {
		nb.Language = defaultLanguage
	}
	for i := range nb.Cells {
		if nb.Cells[i].ID == "" {
			nb.Cells[i].ID = fmt.Sprintf("cell-%d", i+1)
		}
	}
}
