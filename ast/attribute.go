package ast

// AttributeValueKind distinguishes how an attribute's raw text should be
// evaluated.
type AttributeValueKind string

const (
	// AttributeLiteral is a plain quoted value: title="Hello".
	AttributeLiteral AttributeValueKind = "literal"
	// AttributeExpression is a braced value whose text is an expression:
	// title={user.name}.
	AttributeExpression AttributeValueKind = "expression"
)

// AttributeValue is the right-hand side of an element attribute.
type AttributeValue struct {
	Kind AttributeValueKind `json:"kind"`
	Text string             `json:"text"`
}

// Attribute is a key/value pair on an element. Value is nil for bare
// attributes such as `raw` or `else`.
type Attribute struct {
	Key   string          `json:"key"`
	Value *AttributeValue `json:"value,omitempty"`
}

// Literal returns an attribute with a plain string value.
func Literal(key, text string) Attribute {
	return Attribute{Key: key, Value: &AttributeValue{Kind: AttributeLiteral, Text: text}}
}

// Expr returns an attribute whose value is an unevaluated expression.
func Expr(key, text string) Attribute {
	return Attribute{Key: key, Value: &AttributeValue{Kind: AttributeExpression, Text: text}}
}

// Bare returns a value-less attribute.
func Bare(key string) Attribute {
	return Attribute{Key: key}
}

// FindAttribute returns the first attribute with the given key, or nil.
func FindAttribute(attrs []Attribute, key string) *Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			return &attrs[i]
		}
	}
	return nil
}

// TableAlignment is the column alignment of a table, taken from the
// delimiter row.
type TableAlignment string

const (
	AlignNone   TableAlignment = "none"
	AlignLeft   TableAlignment = "left"
	AlignRight  TableAlignment = "right"
	AlignCenter TableAlignment = "center"
)
