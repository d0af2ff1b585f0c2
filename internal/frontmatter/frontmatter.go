// Package frontmatter separates a leading YAML metadata block from note content.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Split separates YAML frontmatter (between leading --- fence lines) from the
// body. When there is no frontmatter, no closing fence, or the block is not a
// YAML mapping, the map is nil and the whole content is body.
//
// String and timestamp scalars keep their source text, so an unquoted
// `created: 2023-01-01` is the string "2023-01-01". Other values are decoded
// as YAML would decode them into any.
func Split(data []byte) (map[string]any, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	// The opening fence must be alone on its line.
	rest := trimmed[len(delim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, string(data)
	}
	rest = rest[nl+1:]

	block, body, ok := cutClosingFence(rest)
	if !ok {
		return nil, string(data)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, string(data)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, body
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, string(data)
	}

	fm := make(map[string]any, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		fm[mapping.Content[i].Value] = nodeValue(mapping.Content[i+1])
	}
	return fm, body
}

// cutClosingFence finds the first line of rest that is exactly the fence,
// trailing whitespace aside, and splits around it.
func cutClosingFence(rest []byte) (block []byte, body string, ok bool) {
	pos := 0
	for {
		end := bytes.IndexByte(rest[pos:], '\n')
		line, next := rest[pos:], len(rest)
		if end >= 0 {
			line, next = rest[pos:pos+end], pos+end+1
		}
		if string(bytes.TrimRight(line, " \t\r")) == delim {
			return rest[:pos], strings.TrimLeft(string(rest[next:]), "\n\r"), true
		}
		if end < 0 {
			return nil, "", false
		}
		pos = next
	}
}

func nodeValue(n *yaml.Node) any {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode {
		switch n.ShortTag() {
		case "!!str", "!!timestamp":
			return n.Value
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil
	}
	return v
}

// String returns the value stored under key if it is a string.
func String(fm map[string]any, key string) (string, bool) {
	raw, ok := fm[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
