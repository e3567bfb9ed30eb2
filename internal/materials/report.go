package materials

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	// StackSize is the unit for bulk-resource reporting.
	StackSize = 64
	// ChestSlots is the usable slot count of the reference container.
	ChestSlots = 54
)

const reportBorder = "============================================================"
const reportDivider = "------------------------------------------------------------"

// TotalStacks sums each entry's stacks rounded up independently. This is
// deliberately not ceil(totalItems/64): partial stacks of different
// items never share a slot.
func TotalStacks(entries []Entry) int {
	stacks := 0
	for _, e := range entries {
		stacks += (e.Total + StackSize - 1) / StackSize
	}
	return stacks
}

func TotalItems(entries []Entry) int {
	items := 0
	for _, e := range entries {
		items += e.Total
	}
	return items
}

// RenderReport produces the fixed-template material report for one
// chunk. Rendering is bytewise deterministic for given inputs.
func RenderReport(index [3]int, schematicName string, entries []Entry) string {
	var b strings.Builder

	b.WriteString(reportBorder + "\n")
	fmt.Fprintf(&b, "Material List for Chunk [%d, %d, %d]\n", index[0], index[1], index[2])
	fmt.Fprintf(&b, "Schematic: %s\n", schematicName)
	b.WriteString(reportBorder + "\n")
	b.WriteString("\n")

	totalItems := TotalItems(entries)
	totalStacks := TotalStacks(entries)

	fmt.Fprintf(&b, "Total Items: %s\n", humanize.Comma(int64(totalItems)))
	fmt.Fprintf(&b, "Total Stacks: %s (%.1f full double chests)\n",
		humanize.Comma(int64(totalStacks)), float64(totalStacks)/float64(ChestSlots))
	b.WriteString("\n")
	b.WriteString(reportDivider + "\n")
	b.WriteString("\n")

	for _, e := range entries {
		stacks := e.Total / StackSize
		remainder := e.Total % StackSize

		fmt.Fprintf(&b, "%-40s : %6s items", e.DisplayName, humanize.Comma(int64(e.Total)))
		if stacks > 0 {
			fmt.Fprintf(&b, "  (%d stacks", stacks)
			if remainder > 0 {
				fmt.Fprintf(&b, " + %d", remainder)
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(reportBorder + "\n")
	b.WriteString("Generated by schemsplit\n")
	b.WriteString(reportBorder)

	return b.String()
}
