package graphfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// GenerateDOT converts a graph snapshot to Graphviz DOT. Each element is a
// record node with its In sockets on the left and Out sockets on the
// right; links join the socket ports.
func GenerateDOT(snap *graph.Snapshot, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph pipeline {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=record, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for i := range snap.Len() {
		e := snap.Element(graph.ElementID(i))
		var ins, outs []string
		for j, s := range e.Sockets {
			field := fmt.Sprintf("<%s> %s", portID(j), escapeDOT(s.Name))
			if s.Direction == graph.Out {
				outs = append(outs, field)
			} else {
				ins = append(ins, field)
			}
		}

		title := escapeDOT(e.Name)
		if e.Kind != "" {
			title += "\\n" + escapeDOT(e.Kind)
		}
		fields := []string{}
		if len(ins) > 0 {
			fields = append(fields, "{"+strings.Join(ins, "|")+"}")
		}
		fields = append(fields, title)
		if len(outs) > 0 {
			fields = append(fields, "{"+strings.Join(outs, "|")+"}")
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"{%s}\"];\n", escapeDOT(e.Name), strings.Join(fields, "|")))
	}
	sb.WriteString("\n")

	for _, lk := range snap.Links() {
		if snap.SocketAt(lk.From).Direction != graph.Out {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\":%s -> \"%s\":%s;\n",
			escapeDOT(snap.Element(lk.From.Element).Name), portID(lk.From.Socket),
			escapeDOT(snap.Element(lk.To.Element).Name), portID(lk.To.Socket)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func portID(socket int) string {
	return fmt.Sprintf("p%d", socket)
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	s = strings.ReplaceAll(s, "{", "\\{")
	s = strings.ReplaceAll(s, "}", "\\}")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}
