// Package report renders allocation results for people and for tools.
//
// Block allocations and wagon plans can be written as an aligned text table,
// as indented JSON or as YAML. Weights in text output are formatted with
// golang.org/x/text/message so large totals get digit grouping.
package report
