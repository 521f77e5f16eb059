// Package loader assigns containers to rail wagon slots.
//
// Three loaders share one shape: they consume ordered tier queues
// (queue.Deque) destructively and return a model.Plan, the ordered stream of
// wagon slots. None of them searches for an optimum; every choice is greedy
// and final.
//
//   - LoadTwenty picks, per wagon, the first matching rule of a priority list.
//   - LoadForty and LoadMixed run phases in order, each applied until it no
//     longer matches.
//
// Both styles are driven by the same declarative Rule type. Containers that
// are consumed without being loaded appear in the plan as drop records, which
// never count towards the wagon count.
package loader
