package wsdlgen

import (
	"bytes"
	"io"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
	"github.com/jacoelho/wsdlgen/wsdl"
)

const indent = "  "

// Definition is a built WSDL definition.
type Definition struct {
	defs *wsdl.Definitions
}

// Model returns the WSDL model. Callers must not modify it.
func (d *Definition) Model() *wsdl.Definitions {
	return d.defs
}

// Bytes serializes the definition as an indented XML document.
func (d *Definition) Bytes() ([]byte, error) {
	out, err := wsdl.MarshalIndent(d.defs, "", indent)
	if err != nil {
		return nil, wsdlerrors.Wrap(wsdlerrors.ErrEncode, err, "encode definition")
	}
	return out, nil
}

// Source returns a reader over the serialized definition.
func (d *Definition) Source() (io.Reader, error) {
	out, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out), nil
}

// WriteTo writes the serialized definition to w.
func (d *Definition) WriteTo(w io.Writer) (int64, error) {
	out, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), err
}
