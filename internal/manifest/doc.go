// Package manifest loads and validates the files that describe an
// allocation run.
//
// A manifest names the mode (block, twenty, forty or mixed), carries the
// loader knobs and holds the input for that mode: block geometry with
// ordered category counts, or the weight tiers of a wagon loader. YAML files
// are parsed with gopkg.in/yaml.v3; JSON files may contain comments, which
// github.com/tidwall/jsonc strips before encoding/json parses them.
//
// Conversion methods build fresh queue.Deque values on every call, so one
// manifest can drive any number of runs.
package manifest
