// Package graphfile reads and writes pipeline graph descriptions and
// renders canvas scenes to DOT, PNG and SVG.
package graphfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/padgraph/pkg/graph"
	"gopkg.in/yaml.v3"
)

// Format is a description file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown graph file format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// SocketSpec describes a static socket or a request template.
type SocketSpec struct {
	Name      string `json:"name" yaml:"name"`
	Direction string `json:"direction" yaml:"direction"`
	Caps      string `json:"caps,omitempty" yaml:"caps,omitempty"`
}

// KindSpec describes an element factory.
type KindSpec struct {
	Name      string       `json:"name" yaml:"name"`
	Rank      int          `json:"rank,omitempty" yaml:"rank,omitempty"`
	Sockets   []SocketSpec `json:"sockets,omitempty" yaml:"sockets,omitempty"`
	Templates []SocketSpec `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// ElementSpec is one element. Request lists templates instantiated once
// each, in order.
type ElementSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Request []string `json:"request,omitempty" yaml:"request,omitempty"`
}

// LinkSpec joins two sockets written as element.socket, Out side first.
type LinkSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Description is a complete graph file.
type Description struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	State    string        `json:"state,omitempty" yaml:"state,omitempty"`
	Kinds    []KindSpec    `json:"kinds" yaml:"kinds"`
	Elements []ElementSpec `json:"elements" yaml:"elements"`
	Links    []LinkSpec    `json:"links,omitempty" yaml:"links,omitempty"`
}

// Parse decodes a description.
func Parse(data []byte, format Format) (*Description, error) {
	var d Description
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return &d, nil
}

// ReadFile loads a description, choosing the format from the extension.
func ReadFile(path string) (*Description, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile saves a description, choosing the format from the extension.
func WriteFile(path string, d *Description) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var data []byte
	if format == FormatJSON {
		data, err = ToJSON(d, true)
	} else {
		data, err = ToYAML(d)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToJSON encodes a description.
func ToJSON(d *Description, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// ToYAML encodes a description.
func ToYAML(d *Description) ([]byte, error) {
	return yaml.Marshal(d)
}

// Backend builds an in-memory graph from the description.
func (d *Description) Backend() (*graph.Memory, error) {
	m := graph.NewMemory()
	for _, k := range d.Kinds {
		kind, err := k.kind()
		if err != nil {
			return nil, err
		}
		m.AddKind(kind)
	}
	for _, e := range d.Elements {
		if err := m.AddNamed(e.Kind, e.Name); err != nil {
			return nil, fmt.Errorf("element %s: %w", e.Name, err)
		}
		for _, tmpl := range e.Request {
			if err := m.RequestAdditionalSocket(e.Name, tmpl); err != nil {
				return nil, fmt.Errorf("element %s: %w", e.Name, err)
			}
		}
	}
	for _, l := range d.Links {
		src, srcSock, err := splitEndpoint(l.From)
		if err != nil {
			return nil, err
		}
		dst, dstSock, err := splitEndpoint(l.To)
		if err != nil {
			return nil, err
		}
		if err := m.Connect(src, srcSock, dst, dstSock); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", l.From, l.To, err)
		}
	}
	if d.State != "" {
		s, err := parseState(d.State)
		if err != nil {
			return nil, err
		}
		m.SetState(s)
	}
	return m, nil
}

// Update rewrites the elements and links from snap, keeping name, state
// and kinds; SetState records playback. Sockets not declared by an element's kind are recorded as
// requests of the first matching template.
func (d *Description) Update(snap *graph.Snapshot) {
	kinds := make(map[string]*KindSpec, len(d.Kinds))
	for i := range d.Kinds {
		kinds[d.Kinds[i].Name] = &d.Kinds[i]
	}

	d.Elements = d.Elements[:0]
	d.Links = nil
	for i := range snap.Len() {
		e := snap.Element(graph.ElementID(i))
		spec := ElementSpec{Name: e.Name, Kind: e.Kind}
		k := kinds[e.Kind]
		for _, s := range e.Sockets {
			if k == nil || k.static(s.Name) {
				continue
			}
			if tmpl, ok := k.template(s.Name); ok {
				spec.Request = append(spec.Request, tmpl)
			}
		}
		d.Elements = append(d.Elements, spec)
	}
	for _, lk := range snap.Links() {
		from := snap.SocketAt(lk.From)
		if from.Direction != graph.Out {
			continue
		}
		d.Links = append(d.Links, LinkSpec{
			From: snap.Element(lk.From.Element).Name + "." + from.Name,
			To:   snap.Element(lk.To.Element).Name + "." + snap.SocketAt(lk.To).Name,
		})
	}
}

// SetState records the playback state. Null is the default and is left
// out of the file.
func (d *Description) SetState(s graph.State) {
	d.State = ""
	if s != graph.StateNull {
		d.State = s.String()
	}
}

func (k KindSpec) kind() (graph.Kind, error) {
	out := graph.Kind{Name: k.Name, Rank: k.Rank}
	for _, s := range k.Sockets {
		dir, err := graph.ParseDirection(s.Direction)
		if err != nil {
			return graph.Kind{}, fmt.Errorf("kind %s socket %s: %w", k.Name, s.Name, err)
		}
		out.Sockets = append(out.Sockets, graph.SocketSpec{Name: s.Name, Direction: dir, Caps: s.Caps})
	}
	for _, s := range k.Templates {
		dir, err := graph.ParseDirection(s.Direction)
		if err != nil {
			return graph.Kind{}, fmt.Errorf("kind %s template %s: %w", k.Name, s.Name, err)
		}
		out.Templates = append(out.Templates, graph.Template{Name: s.Name, Direction: dir, Caps: s.Caps})
	}
	return out, nil
}

func (k *KindSpec) static(name string) bool {
	for _, s := range k.Sockets {
		if s.Name == name {
			return true
		}
	}
	return false
}

func (k *KindSpec) template(name string) (string, bool) {
	for _, t := range k.Templates {
		if matchTemplate(t.Name, name) {
			return t.Name, true
		}
	}
	return "", false
}

// matchTemplate reports whether name is an instance of pattern, where %u
// stands for a decimal number.
func matchTemplate(pattern, name string) bool {
	i := strings.Index(pattern, "%u")
	if i < 0 {
		return pattern == name
	}
	prefix, suffix := pattern[:i], pattern[i+2:]
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) ||
		len(name) <= len(prefix)+len(suffix) {
		return false
	}
	for _, r := range name[len(prefix) : len(name)-len(suffix)] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitEndpoint(s string) (element, socket string, err error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("endpoint %q: want element.socket", s)
	}
	return s[:i], s[i+1:], nil
}

func parseState(s string) (graph.State, error) {
	for _, st := range []graph.State{graph.StateNull, graph.StateReady, graph.StatePaused, graph.StatePlaying} {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return graph.StateNull, fmt.Errorf("unknown state %q", s)
}
