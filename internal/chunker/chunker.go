package chunker

import (
	"fmt"
	"slices"

	"github.com/dgallion1/replout/internal/display"
)

// Range is the most siblings a single chunk level holds.
const Range = 100

// Chunk groups array elements into a display tree that never puts more than
// Range elements in a leaf. Arrays of up to Range elements come back as a
// single leaf labeled Array[n]. Larger arrays get a root labeled Array[n]
// whose children are range-labeled leaves; when there are more than Range
// leaves they are grouped once more, so the tree is at most two tiers deep
// below the root. The input slice is not modified.
func Chunk(items []display.Node) display.Node {
	total := len(items)
	arr := slices.Clone(items)
	if total <= Range {
		if arr == nil {
			arr = []display.Node{}
		}
		return display.ArrayChunk{
			Items:   arr,
			Label:   fmt.Sprintf("Array[%d]", total),
			Indexed: true,
		}
	}

	chunks, sizes := group(arr, nil, true)
	if len(chunks) > Range {
		// Items of a second-tier group are chunks, not elements, so they
		// carry no per-item index.
		chunks, _ = group(chunks, sizes, false)
	}

	return display.ArrayChunk{
		Items:       chunks,
		Label:       fmt.Sprintf("Array[%d]", total),
		StartIndex:  0,
		Indexed:     false,
		TotalLength: total,
	}
}

// group partitions items into consecutive runs of Range. sizes holds the
// number of original elements each item covers; nil means one each. It
// returns the new chunks and the element count covered by each.
func group(items []display.Node, sizes []int, indexed bool) ([]display.Node, []int) {
	var out []display.Node
	var counts []int
	lo := 0
	for start := 0; start < len(items); start += Range {
		end := min(start+Range, len(items))
		n := end - start
		if sizes != nil {
			n = 0
			for _, s := range sizes[start:end] {
				n += s
			}
		}
		out = append(out, display.ArrayChunk{
			Items:      items[start:end:end],
			Label:      RangeLabel(lo, lo+n-1),
			StartIndex: lo,
			Indexed:    indexed,
		})
		counts = append(counts, n)
		lo += n
	}
	return out, counts
}

// RangeLabel formats the inclusive original-index bounds of a chunk.
func RangeLabel(lo, hi int) string {
	return fmt.Sprintf("[%d … %d]", lo, hi)
}
