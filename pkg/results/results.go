package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/foldeval/refold/pkg/config"
)

// CompleteResultsFile is the merged per-sequence metric file the
// pipeline writes into its output directory.
const CompleteResultsFile = "complete_results.csv"

// Thresholds define when a refolded sequence counts as a hit. The RMSD
// cutoffs are the standard designability criteria; exactly one of the
// confidence gates is active depending on the chosen metric.
type Thresholds struct {
	MaxSCRMSD    float64
	MaxMotifRMSD float64
	MinPLDDT     float64 // active when UsePLDDT
	MaxPAE       float64 // active when !UsePLDDT
	UsePLDDT     bool
}

// ThresholdsFor returns the criteria for a metric label. Unknown or
// empty labels default to the pLDDT gate.
func ThresholdsFor(metric string) Thresholds {
	return Thresholds{
		MaxSCRMSD:    2.0,
		MaxMotifRMSD: 1.0,
		MinPLDDT:     80.0,
		MaxPAE:       5.0,
		UsePLDDT:     metric != config.MetricPAE,
	}
}

// Row is one refolded sequence's metrics. Absent columns are NaN.
type Row struct {
	Backbone  string
	Sample    string
	RMSD      float64
	MotifRMSD float64
	PLDDT     float64
	PAE       float64
}

// Hit reports whether the row satisfies the thresholds. Metrics the
// pipeline did not emit (NaN) do not disqualify a row, except the
// self-consistency RMSD which is always required.
func (r Row) Hit(th Thresholds) bool {
	if math.IsNaN(r.RMSD) || r.RMSD >= th.MaxSCRMSD {
		return false
	}
	if !math.IsNaN(r.MotifRMSD) && r.MotifRMSD >= th.MaxMotifRMSD {
		return false
	}
	if th.UsePLDDT {
		if !math.IsNaN(r.PLDDT) && r.PLDDT <= th.MinPLDDT {
			return false
		}
	} else {
		if !math.IsNaN(r.PAE) && r.PAE >= th.MaxPAE {
			return false
		}
	}
	return true
}

// BackboneSummary aggregates all sequences refolded from one backbone.
type BackboneSummary struct {
	Backbone string  `json:"backbone"`
	Samples  int     `json:"samples"`
	Hits     int     `json:"hits"`
	BestRMSD float64 `json:"best_rmsd"`
}

// Designable is true when at least one sequence hit the criteria.
func (b BackboneSummary) Designable() bool { return b.Hits > 0 }

// Summary is the aggregate over a whole results file.
type Summary struct {
	Metric              string            `json:"metric"`
	TotalSequences      int               `json:"total_sequences"`
	TotalBackbones      int               `json:"total_backbones"`
	DesignableBackbones int               `json:"designable_backbones"`
	Fraction            float64           `json:"designable_fraction"`
	Backbones           []BackboneSummary `json:"backbones"`
}

// Read parses a complete_results.csv stream. Column order is not
// assumed; headers are matched case-insensitively.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read results header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col(idx, "rmsd"); !ok {
		return nil, fmt.Errorf("results file has no rmsd column (header: %s)", strings.Join(header, ","))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results row: %w", err)
		}

		row := Row{
			Backbone:  field(record, idx, "backbone_path", "backbone_name", "backbone"),
			Sample:    field(record, idx, "sample", "sample_num", "header"),
			RMSD:      number(record, idx, "rmsd"),
			MotifRMSD: number(record, idx, "motif_rmsd"),
			PLDDT:     number(record, idx, "plddt", "mean_plddt"),
			PAE:       number(record, idx, "pae", "mean_pae"),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile parses the results file inside an output directory.
func ReadFile(dir string) ([]Row, error) {
	path := filepath.Join(dir, CompleteResultsFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Summarize groups rows by backbone and applies the metric thresholds.
func Summarize(rows []Row, metric string) *Summary {
	th := ThresholdsFor(metric)

	byBackbone := map[string]*BackboneSummary{}
	for _, row := range rows {
		key := row.Backbone
		if key == "" {
			key = "(unknown)"
		}
		b, ok := byBackbone[key]
		if !ok {
			b = &BackboneSummary{Backbone: key, BestRMSD: math.Inf(1)}
			byBackbone[key] = b
		}
		b.Samples++
		if row.Hit(th) {
			b.Hits++
		}
		if !math.IsNaN(row.RMSD) && row.RMSD < b.BestRMSD {
			b.BestRMSD = row.RMSD
		}
	}

	s := &Summary{
		Metric:         metric,
		TotalSequences: len(rows),
		TotalBackbones: len(byBackbone),
	}
	for _, b := range byBackbone {
		if b.Designable() {
			s.DesignableBackbones++
		}
		if math.IsInf(b.BestRMSD, 1) {
			// No parseable rmsd for this backbone; zero keeps the
			// summary JSON-encodable.
			b.BestRMSD = 0
		}
		s.Backbones = append(s.Backbones, *b)
	}
	sort.Slice(s.Backbones, func(i, j int) bool {
		return s.Backbones[i].Backbone < s.Backbones[j].Backbone
	})
	if s.TotalBackbones > 0 {
		s.Fraction = float64(s.DesignableBackbones) / float64(s.TotalBackbones)
	}
	return s
}

func col(idx map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := idx[n]; ok {
			return i, true
		}
	}
	return 0, false
}

func field(record []string, idx map[string]int, names ...string) string {
	if i, ok := col(idx, names...); ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func number(record []string, idx map[string]int, names ...string) float64 {
	raw := field(record, idx, names...)
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
