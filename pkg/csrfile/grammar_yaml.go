package csrfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

const yamlIndent = 2

type yamlGrammar struct{}

func (yamlGrammar) decode(data []byte) (any, error) {
	// Parse into a node tree rather than a map so mapping order survives.
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, parseError(FormatYAML, errors.New("empty document"))
		}
		return nil, parseError(FormatYAML, err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, parseError(FormatYAML, errors.New("empty document"))
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("line %d: unexpected second document", extra.Line)
		}
		return nil, parseError(FormatYAML, err)
	}

	w := yamlWalker{expanding: make(map[*yaml.Node]bool)}
	v, err := w.value(&root)
	if err != nil {
		return nil, parseError(FormatYAML, err)
	}
	return v, nil
}

// yamlWalker converts a node tree into document values, expanding
// aliases. It applies the same alias budget as yaml.v3's own decoder.
type yamlWalker struct {
	expanding  map[*yaml.Node]bool
	aliasDepth int
	nodes      int
	aliased    int
}

// allowedAliasRatio mirrors yaml.v3: small documents may be almost
// entirely aliases, large ones only a tenth.
func allowedAliasRatio(nodes int) float64 {
	const (
		lowNodes  = 400000
		highNodes = 4000000
	)
	switch {
	case nodes <= lowNodes:
		return 0.99
	case nodes >= highNodes:
		return 0.10
	}
	return 0.99 - 0.89*(float64(nodes-lowNodes)/float64(highNodes-lowNodes))
}

func (w *yamlWalker) value(n *yaml.Node) (any, error) {
	w.nodes++
	if w.aliasDepth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.nodes > 1000 && float64(w.aliased)/float64(w.nodes) > allowedAliasRatio(w.nodes) {
		return nil, errors.New("document contains excessive aliasing")
	}

	switch n.Kind {
	case yaml.DocumentNode:
		return w.value(n.Content[0])
	case yaml.AliasNode:
		// Aliases in input are expanded; output never contains them.
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q contains itself", n.Line, n.Value)
		}
		w.expanding[n.Alias] = true
		w.aliasDepth++
		v, err := w.value(n.Alias)
		w.aliasDepth--
		delete(w.expanding, n.Alias)
		return v, err
	case yaml.MappingNode:
		m := regmap.NewAttrs()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			switch keyNode.ShortTag() {
			case "!!str":
			case "!!merge":
				return nil, fmt.Errorf("line %d: merge keys are not supported", keyNode.Line)
			default:
				return nil, fmt.Errorf("line %d: mapping key %q must be a string, got %s", keyNode.Line, keyNode.Value, keyNode.ShortTag())
			}
			if m.Has(keyNode.Value) {
				return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, keyNode.Value)
			}
			v, err := w.value(valueNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := w.value(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, fmt.Errorf("line %d: integer %q out of range", n.Line, n.Value)
		}
		return intValue(u), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text.
		return n.Value, nil
	}
}

func (yamlGrammar) encode(doc *regmap.Attrs) ([]byte, error) {
	root, err := yamlNode(doc)
	if err != nil {
		return nil, err
	}

	// The node tree is built here for each call, so the encoder has
	// nothing to fold into anchors and aliases.
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}

	switch val := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(val)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalar("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		switch {
		case math.IsNaN(val):
			return scalar("!!float", ".nan"), nil
		case math.IsInf(val, 1):
			return scalar("!!float", ".inf"), nil
		case math.IsInf(val, -1):
			return scalar("!!float", "-.inf"), nil
		}
		return scalar("!!float", formatFloat(val)), nil
	case string:
		return scalar("!!str", val), nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			n, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case *regmap.Attrs:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		val.Range(func(k string, item any) bool {
			var n *yaml.Node
			if n, err = yamlNode(item); err != nil {
				return false
			}
			m.Content = append(m.Content, scalar("!!str", k), n)
			return true
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("unsupported value type %T", v)}
}
