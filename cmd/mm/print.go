package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chazu/multimethod/dispatch"
)

func printSnapshot(out io.Writer, s *dispatch.Snapshot) error {
	repr := "small"
	if s.Large {
		repr = "large"
	}
	fmt.Fprintf(out, "engine %s (%s)\n", s.Name, s.EngineID)
	fmt.Fprintf(out, "taken %s, %d instances, max arity %d, %s bitsets (capacity %d)\n\n",
		s.TakenAt.UTC().Format(time.RFC3339), len(s.Instances), s.MaxArity, repr, s.Capacity)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIGNATURE")
	for _, inst := range s.Instances {
		fmt.Fprintf(w, "%d\t(%s)\n", inst.ID, strings.Join(inst.Nodes, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "POSITION\tNODE\tMEMBERS")
	for _, f := range s.Frames {
		pos := fmt.Sprint(f.Position)
		if f.Position < 0 {
			pos = "rest"
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", pos, f.Node, f.Members)
	}
	return w.Flush()
}
