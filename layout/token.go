package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Token is one entry of a serialized cell sequence: either a literal cell or
// a run of Empty consecutive empty positions.
type Token struct {
	Cell  *Cell
	Empty int
}

// Run returns a token standing for n empty cells.
func Run(n int) Token { return Token{Empty: n} }

// Literal returns a token holding c.
func Literal(c *Cell) Token { return Token{Cell: c} }

// Count is the number of grid positions the token covers.
func (t Token) Count() int {
	if t.Cell != nil {
		return 1
	}
	return t.Empty
}

// ParseRun parses a decimal run token.
func ParseRun(s string) (Token, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Token{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	return Token{Empty: n}, nil
}

func (t Token) MarshalJSON() ([]byte, error) {
	if t.Cell != nil {
		return json.Marshal(t.Cell)
	}
	return json.Marshal(strconv.Itoa(t.Empty))
}

func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = Token{Empty: 1}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		tok, err := ParseRun(s)
		if err != nil {
			return err
		}
		*t = tok
		return nil
	}
	var c Cell
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("layout: decode cell: %w", err)
	}
	*t = Token{Cell: &c}
	return nil
}

func (t Token) MarshalYAML() (interface{}, error) {
	if t.Cell != nil {
		return t.Cell, nil
	}
	return strconv.Itoa(t.Empty), nil
}

func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		tok, err := ParseRun(node.Value)
		if err != nil {
			return err
		}
		*t = tok
		return nil
	case yaml.MappingNode:
		var c Cell
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("layout: decode cell: %w", err)
		}
		*t = Token{Cell: &c}
		return nil
	}
	return fmt.Errorf("%w: unexpected yaml node at line %d", ErrInvalidToken, node.Line)
}

// Tokens is a serialized cell sequence.
type Tokens []Token

// UnmarshalYAML decodes the sequence item by item. yaml.v3 never hands a
// null item to Token.UnmarshalYAML, so null is mapped to a run of one here.
func (ts *Tokens) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: cells must be a sequence (line %d)", ErrInvalidToken, node.Line)
	}
	out := make(Tokens, len(node.Content))
	for i, item := range node.Content {
		if item.ShortTag() == "!!null" {
			out[i] = Run(1)
			continue
		}
		if err := item.Decode(&out[i]); err != nil {
			return err
		}
	}
	*ts = out
	return nil
}
