// Package connect derives electrical connectivity from a parsed schematic:
// it transforms symbol-local pin geometry into absolute sheet coordinates,
// partitions wire endpoints, junctions, pins, labels and power symbols into
// named nets with a union-find structure, and answers cached point queries
// (same-net checks, net lookup, connected-pin enumeration). Multi-sheet
// designs are aggregated by matching sheet pins to hierarchical labels and
// merging global labels across sheets.
//
// Resolution is a pure function of the document snapshot: nothing here
// performs I/O or mutates the schematic, and rebuilding the same snapshot
// twice yields identical partitions.
package connect
