// Package nasxml decodes SWIM flight-data XML messages into record trees.
package nasxml

import (
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/hpungsan/fpwatch/internal/errors"
	"github.com/hpungsan/fpwatch/internal/record"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

type frame struct {
	name  string
	rec   record.Record
	text  strings.Builder
	isNil bool
}

// Decode reads one XML document and returns it as a record keyed by the root
// element's local name. Namespace prefixes are dropped from element and
// attribute names, namespace declarations and xsi attributes are discarded,
// and elements marked xsi:nil="true" decode to nil.
func Decode(r io.Reader) (record.Record, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader

	var (
		stack []*frame
		root  record.Record
	)

	for {
		tok, err := d.Token()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.NewMalformedInput("", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, newFrame(t))
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := top.value()
			if len(stack) == 0 {
				root = record.Record{top.name: value}
				continue
			}
			addChild(stack[len(stack)-1].rec, top.name, value)
		}
	}

	if root == nil {
		return nil, errors.NewMalformedInput("", fmt.Errorf("document has no root element"))
	}
	return root, nil
}

// Messages returns the flight messages of a MessageCollection document. The
// bool result is false when the document root is not a MessageCollection.
func Messages(doc record.Record) ([]record.Record, bool) {
	collection, ok := doc.Child("MessageCollection")
	if !ok {
		if _, present := doc["MessageCollection"]; present {
			return nil, true
		}
		return nil, false
	}
	return collection.All("message"), true
}

func newFrame(start xml.StartElement) *frame {
	f := &frame{name: start.Name.Local, rec: record.Record{}}
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns"):
			continue
		case a.Name.Space == xsiNamespace || a.Name.Space == "xsi":
			if a.Name.Local == "nil" && strings.TrimSpace(a.Value) == "true" {
				f.isNil = true
			}
			continue
		}
		f.rec[record.Attr(a.Name.Local)] = a.Value
	}
	return f
}

func (f *frame) value() any {
	if f.isNil {
		return nil
	}
	text := strings.TrimSpace(f.text.String())
	if len(f.rec) == 0 {
		if text == "" {
			return nil
		}
		return text
	}
	if text != "" {
		f.rec[record.TextKey] = text
	}
	return f.rec
}

func addChild(parent record.Record, name string, value any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = value
		return
	}
	if seq, ok := existing.([]any); ok {
		parent[name] = append(seq, value)
		return
	}
	parent[name] = []any{existing, value}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}
