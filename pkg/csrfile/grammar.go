package csrfile

import (
	"fmt"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// grammar converts between the bytes of one document format and the
// generic document tree. It knows nothing about registers.
type grammar interface {
	// decode parses data. The result is the document root, which may be
	// any tree value; Build checks that it is a mapping.
	decode(data []byte) (any, error)

	// encode renders a document. Mapping keys keep their order and no
	// value is ever emitted as a reference to another.
	encode(doc *regmap.Attrs) ([]byte, error)
}

func parseError(format Format, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrParse, format, err)
}

// decodeDocument parses data and checks that the root is a mapping.
func decodeDocument(format Format, data []byte) (*regmap.Attrs, error) {
	g, err := format.grammar()
	if err != nil {
		return nil, err
	}
	root, err := g.decode(data)
	if err != nil {
		return nil, err
	}
	doc, ok := root.(*regmap.Attrs)
	if !ok {
		return nil, &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("document root must be a mapping, got %s", typeName(root))}
	}
	return doc, nil
}

// encodeDocument renders a flattened document in the given format.
func encodeDocument(format Format, doc *regmap.Attrs) ([]byte, error) {
	g, err := format.grammar()
	if err != nil {
		return nil, err
	}
	return g.encode(doc)
}
