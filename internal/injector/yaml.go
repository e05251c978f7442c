package injector

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

// substituteYAML decodes content into yaml.Node trees, substitutes inside
// every string scalar, and re-encodes. The node trees preserve mapping key
// order and comments, which keeps the output diffable against the input.
// Multi-document streams are decoded document by document; the encoder
// emits the "---" separators on re-encode.
func substituteYAML(path, content string, secrets map[string]string, placeholders []string) (string, error) {
	content = strings.TrimPrefix(content, byteOrderMark)

	var docs []*yaml.Node
	decoder := yaml.NewDecoder(strings.NewReader(content))
	for {
		var doc yaml.Node
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &kerrors.FormatError{Path: path, Err: err}
		}
		if doc.Kind == 0 || len(doc.Content) == 0 {
			continue
		}
		docs = append(docs, &doc)
	}

	// Empty streams (blank file, comments only) have nothing to substitute.
	if len(docs) == 0 {
		return content, nil
	}

	for _, doc := range docs {
		substituteYAMLNode(doc, secrets, placeholders)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	for _, doc := range docs {
		if err := encoder.Encode(doc.Content[0]); err != nil {
			return "", &kerrors.FormatError{Path: path, Err: err}
		}
	}
	if err := encoder.Close(); err != nil {
		return "", &kerrors.FormatError{Path: path, Err: err}
	}

	return buf.String(), nil
}

// substituteYAMLNode rewrites string scalars in place, recursing through
// mappings and sequences to unbounded depth. Numbers, booleans, and nulls
// carry non-string tags and are left untouched.
func substituteYAMLNode(node *yaml.Node, secrets map[string]string, placeholders []string) {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!str" {
			node.Value = replaceLiteral(node.Value, secrets, placeholders)
		}
		return
	}

	for _, child := range node.Content {
		substituteYAMLNode(child, secrets, placeholders)
	}
}
