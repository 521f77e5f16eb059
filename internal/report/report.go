package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/railyard/internal/block"
	"github.com/shinji-kodama/railyard/internal/model"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: text, json, yaml)", s)
	}
}

// printer formats numbers for text output.
var printer = message.NewPrinter(language.English)

// FormatWeight renders a weight with one decimal and digit grouping.
func FormatWeight(w float64) string {
	return printer.Sprintf("%.1f", w)
}

// PlanReport is the structured form of a wagon plan.
type PlanReport struct {
	Name string `json:"name" yaml:"name"`

	// Wagons is the number of loaded slots.
	Wagons int `json:"wagons" yaml:"wagons"`

	// DroppedContainers counts containers consumed without being loaded.
	DroppedContainers int `json:"droppedContainers" yaml:"droppedContainers"`

	// TotalWeight sums loaded slots only.
	TotalWeight float64 `json:"totalWeight" yaml:"totalWeight"`

	Slots []model.WagonSlot `json:"slots" yaml:"slots"`
}

// NewPlanReport summarizes a plan.
func NewPlanReport(name string, plan model.Plan) PlanReport {
	r := PlanReport{
		Name:        name,
		Wagons:      plan.Loaded(),
		TotalWeight: plan.TotalWeight(),
	}
	// Use an empty slice instead of nil so JSON shows [] instead of null.
	r.Slots = make([]model.WagonSlot, 0, len(plan.Slots))
	for _, s := range plan.Dropped() {
		r.DroppedContainers += len(s.Weights)
	}
	r.Slots = append(r.Slots, plan.Slots...)
	return r
}

// BlockReport describes the block geometry in structured output.
type BlockReport struct {
	StackHeight int `json:"stackHeight" yaml:"stackHeight"`
	MaxBays     int `json:"maxBays" yaml:"maxBays"`
	MaxRows     int `json:"maxRows" yaml:"maxRows"`
	Capacity    int `json:"capacity" yaml:"capacity"`
}

// AllocationReport is the structured form of a block allocation.
type AllocationReport struct {
	Name       string                 `json:"name" yaml:"name"`
	Block      BlockReport            `json:"block" yaml:"block"`
	Stacks     int                    `json:"stacks" yaml:"stacks"`
	Categories []model.CategoryStacks `json:"categories" yaml:"categories"`
}

// NewAllocationReport summarizes an allocation.
func NewAllocationReport(name string, alloc model.Allocation, b block.Block) AllocationReport {
	r := AllocationReport{
		Name: name,
		Block: BlockReport{
			StackHeight: b.StackHeight,
			MaxBays:     b.MaxBays,
			MaxRows:     b.MaxRows,
			Capacity:    b.Capacity(),
		},
		Stacks:     alloc.Stacks(),
		Categories: make([]model.CategoryStacks, 0, len(alloc)),
	}
	r.Categories = append(r.Categories, alloc...)
	return r
}

// WritePlan renders a wagon plan to w.
func WritePlan(w io.Writer, format Format, name string, plan model.Plan) error {
	r := NewPlanReport(name, plan)
	if format == FormatText {
		return writePlanText(w, r)
	}
	return WriteStructured(w, format, r)
}

// WriteAllocation renders a block allocation to w.
func WriteAllocation(w io.Writer, format Format, name string, alloc model.Allocation, b block.Block) error {
	r := NewAllocationReport(name, alloc, b)
	if format == FormatText {
		return writeAllocationText(w, r)
	}
	return WriteStructured(w, format, r)
}

// WriteStructured encodes v as JSON or YAML. Text is not a structured format.
func WriteStructured(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// writePlanText prints one row per slot. Drops have no wagon number.
//
//	#    KIND                  SOURCE               WEIGHTS                TOTAL  NOTES
//	1    pair                  heavy-pair           24.0 / 23.5             47.5
//	-    drop                  light-single         12.0                    12.0  over-weight-limit
func writePlanText(w io.Writer, r PlanReport) error {
	bw := &errWriter{w: w}

	if r.Name != "" {
		bw.printf("%s\n", r.Name)
	}
	if len(r.Slots) == 0 {
		bw.printf("No wagons loaded.\n")
		return bw.err
	}

	bw.printf("%-4s %-21s %-20s %-22s %6s  %s\n", "#", "KIND", "SOURCE", "WEIGHTS", "TOTAL", "NOTES")
	wagon := 0
	for _, s := range r.Slots {
		num := "-"
		if s.Loaded() {
			wagon++
			num = fmt.Sprint(wagon)
		}
		bw.printf("%-4s %-21s %-20s %-22s %6s  %s\n",
			num,
			s.Kind,
			s.Source,
			FormatSlotWeights(s),
			FormatWeight(s.Total()),
			strings.Join(s.Violations, ","),
		)
	}

	bw.printf("\nWagons: %d  Dropped containers: %d  Total weight: %s\n",
		r.Wagons, r.DroppedContainers, FormatWeight(r.TotalWeight))
	return bw.err
}

// writeAllocationText prints one row per category.
//
//	CATEGORY     STACKS  POSITIONS
//	V1           6       (1,1) (1,2) (1,3) (1,4) (1,5) (2,1)
func writeAllocationText(w io.Writer, r AllocationReport) error {
	bw := &errWriter{w: w}

	if r.Name != "" {
		bw.printf("%s\n", r.Name)
	}
	bw.printf("Block: %d bays x %d rows, stack height %d\n", r.Block.MaxBays, r.Block.MaxRows, r.Block.StackHeight)
	if len(r.Categories) == 0 {
		bw.printf("No categories allocated.\n")
		return bw.err
	}

	bw.printf("%-12s %-7s %s\n", "CATEGORY", "STACKS", "POSITIONS")
	for _, c := range r.Categories {
		bw.printf("%-12s %-7d %s\n", c.Category, len(c.Positions), FormatPositions(c.Positions))
	}

	bw.printf("\nStacks used: %d of %d\n", r.Stacks, r.Block.Capacity)
	return bw.err
}

// FormatSlotWeights renders the weights of a slot by role: "lower / upper"
// for a pair and "20ft + 20ft | balancer" for a twenty-pair-balancer. Other
// shapes list their weights in order.
func FormatSlotWeights(s model.WagonSlot) string {
	if upper, ok := s.Upper(); ok {
		return FormatWeight(s.Lower()) + " / " + FormatWeight(upper)
	}
	if balancer, ok := s.Balancer(); ok {
		return FormatWeight(s.Lower()) + " + " + FormatWeight(s.Weights[1]) + " | " + FormatWeight(balancer)
	}
	return formatWeights(s.Weights)
}

func formatWeights(weights []float64) string {
	parts := make([]string, 0, len(weights))
	for _, w := range weights {
		parts = append(parts, FormatWeight(w))
	}
	return strings.Join(parts, " / ")
}

// FormatPositions joins positions with spaces. Returns "-" for none.
func FormatPositions(positions []model.Position) string {
	if len(positions) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}

// errWriter keeps the first write error so table code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteFile writes rendered output to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
