package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"hogpd/device/keyboard"
)

// Keys lists the supported key names with their HID usage codes.
type Keys struct{}

func (k *Keys) Run() error {
	usages := make([]int, 0, len(keyboard.KeyName))
	for usage := range keyboard.KeyName {
		usages = append(usages, int(usage))
	}
	sort.Ints(usages)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USAGE\tNAME\tMODIFIER")
	for _, usage := range usages {
		u := uint8(usage)
		mod := ""
		if keyboard.IsModifier(u) {
			mod = "yes"
		}
		fmt.Fprintf(w, "0x%02X\t%s\t%s\n", u, keyboard.KeyName[u], mod)
	}
	return w.Flush()
}
