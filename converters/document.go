package converters

import (
	"encoding/xml"

	"github.com/Station-Manager/errors"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// YAML is a YAML encoded document.
type YAML []byte

// XMLNode is a generic XML element tree.
type XMLNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []XMLNode  `xml:",any"`
}

// Attr returns the value of the attribute with the given local name.
func (n XMLNode) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func decodeJSON[T any](data []byte) (T, error) {
	const op errors.Op = "converters.decodeJSON"
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, Wrap(op, ErrMsgBadDocument, err)
	}
	return out, nil
}

func encodeJSON(v any) ([]byte, error) {
	const op errors.Op = "converters.encodeJSON"
	b, err := json.Marshal(v)
	if err != nil {
		return nil, Wrap(op, ErrMsgBadDocument, err)
	}
	return b, nil
}

// DecodeYAML decodes a YAML mapping.
func DecodeYAML(doc YAML) (map[string]any, error) {
	const op errors.Op = "converters.DecodeYAML"
	out := make(map[string]any)
	if err := yaml.Unmarshal(doc, &out); err != nil {
		return nil, Wrap(op, ErrMsgBadDocument, err)
	}
	return out, nil
}

// EncodeYAML encodes m as a YAML mapping.
func EncodeYAML(m map[string]any) (YAML, error) {
	const op errors.Op = "converters.EncodeYAML"
	b, err := yaml.Marshal(m)
	if err != nil {
		return nil, Wrap(op, ErrMsgBadDocument, err)
	}
	return b, nil
}

// DecodeXML parses an XML document into its root element.
func DecodeXML(doc string) (XMLNode, error) {
	const op errors.Op = "converters.DecodeXML"
	var n XMLNode
	if err := xml.Unmarshal([]byte(doc), &n); err != nil {
		return XMLNode{}, Wrap(op, ErrMsgBadDocument, err)
	}
	return n, nil
}

// EncodeXML renders n as XML.
func EncodeXML(n XMLNode) (string, error) {
	const op errors.Op = "converters.EncodeXML"
	b, err := xml.Marshal(n)
	if err != nil {
		return "", Wrap(op, ErrMsgBadDocument, err)
	}
	return string(b), nil
}

func registerDocuments(r *Registry) {
	r.Register(
		New(func(s string) (map[string]any, error) { return decodeJSON[map[string]any]([]byte(s)) }),
		New(func(b []byte) (map[string]any, error) { return decodeJSON[map[string]any](b) }),
		New(func(s string) ([]any, error) { return decodeJSON[[]any]([]byte(s)) }),
		New(func(b []byte) ([]any, error) { return decodeJSON[[]any](b) }),
		New(func(m map[string]any) (string, error) {
			b, err := encodeJSON(m)
			return string(b), err
		}),
		New(func(m map[string]any) ([]byte, error) { return encodeJSON(m) }),
		New(func(l []any) (string, error) {
			b, err := encodeJSON(l)
			return string(b), err
		}),
		New(DecodeYAML),
		New(EncodeYAML),
		New(func(s string) (YAML, error) { return YAML(s), nil }),
		New(func(y YAML) (string, error) { return string(y), nil }),
		New(DecodeXML),
		New(EncodeXML),
	)
}
