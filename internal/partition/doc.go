// Package partition splits a line-oriented file into per-worker byte ranges.
//
// Each worker owns a nominal range of size/workers bytes. Non-last workers
// read delta extra bytes past their nominal end so that the line crossing the
// boundary can be completed. After reading, ranges are repaired to whole
// lines: a line belongs to the partition that contains its first byte.
//
// With that rule the repaired ranges, concatenated in rank order, reproduce
// the file exactly, for any worker count and any positive delta.
package partition
