package content

import (
	"github.com/Doctave/docapella-sub001/ast"
)

// Attribute keys accepted by the built-in elements.
const (
	TitleKey       = "title"
	AlignKey       = "align"
	JustifyKey     = "justify"
	DirectionKey   = "dir"
	WrapKey        = "wrap"
	GapKey         = "gap"
	PadKey         = "pad"
	HeightKey      = "height"
	ClassKey       = "class"
	MaxWidthKey    = "max_width"
	ColumnsKey     = "cols"
	ExpandedKey    = "expanded"
	OpenAPIPathKey = "openapi_path"
)

// primitiveAttrKeys lists the attributes each element accepts, beyond the
// always-legal conditional ones.
var primitiveAttrKeys = map[Kind][]string{
	KindTabs:          {},
	KindTab:           {TitleKey},
	KindSteps:         {},
	KindStep:          {TitleKey},
	KindCodeSelect:    {TitleKey},
	KindFlex:          {AlignKey, JustifyKey, DirectionKey, WrapKey, GapKey, PadKey, HeightKey, ClassKey},
	KindBox:           {PadKey, ClassKey, MaxWidthKey, HeightKey},
	KindGrid:          {ColumnsKey, GapKey},
	KindSlot:          {},
	KindOpenAPISchema: {TitleKey, ExpandedKey, OpenAPIPathKey},
}

// PrimitiveKind maps an element name to its built-in kind, if it is one.
func PrimitiveKind(name string) (Kind, bool) {
	switch name {
	case "Tabs":
		return KindTabs, true
	case "Tab":
		return KindTab, true
	case "Steps":
		return KindSteps, true
	case "Step":
		return KindStep, true
	case "CodeSelect":
		return KindCodeSelect, true
	case "Flex":
		return KindFlex, true
	case "Box":
		return KindBox, true
	case "Grid":
		return KindGrid, true
	case "Slot":
		return KindSlot, true
	case "OpenAPISchema":
		return KindOpenAPISchema, true
	}
	return "", false
}

// UnexpectedAttributeError reports an attribute a built-in element does
// not declare.
type UnexpectedAttributeError struct {
	Key string
	Pos ast.Position
}

func (e *UnexpectedAttributeError) Error() string {
	return "Unexpected attribute \"" + e.Key + "\""
}

// NewPrimitiveNode builds the content node for a built-in element,
// screening its attributes. Conditional attributes (if/elseif/else) are
// always tolerated; the caller wraps the node separately.
func NewPrimitiveNode(kind Kind, attrs []ast.Attribute, pos ast.Position) (*Node, *UnexpectedAttributeError) {
	allowed := primitiveAttrKeys[kind]

	byKey := map[string]*ast.AttributeValue{}
	for i := range attrs {
		if attrs[i].Value != nil {
			byKey[attrs[i].Key] = attrs[i].Value
		}
	}

	for key := range byKey {
		if _, isCond := ParseOperation(key); isCond {
			continue
		}
		ok := false
		for _, a := range allowed {
			if a == key {
				ok = true
				break
			}
		}
		if !ok {
			return nil, &UnexpectedAttributeError{Key: key, Pos: pos}
		}
	}

	n := NewNode(kind, pos)
	switch kind {
	case KindTab, KindStep, KindCodeSelect:
		n.PrimTitle = byKey[TitleKey]
	case KindFlex:
		n.Flex = &FlexAttrs{
			Align:     byKey[AlignKey],
			Justify:   byKey[JustifyKey],
			Direction: byKey[DirectionKey],
			Wrap:      byKey[WrapKey],
			Gap:       byKey[GapKey],
			Padding:   byKey[PadKey],
			Height:    byKey[HeightKey],
			Class:     byKey[ClassKey],
		}
	case KindBox:
		n.Box = &BoxAttrs{
			Padding:  byKey[PadKey],
			Class:    byKey[ClassKey],
			MaxWidth: byKey[MaxWidthKey],
			Height:   byKey[HeightKey],
		}
	case KindGrid:
		n.Grid = &GridAttrs{
			Cols: byKey[ColumnsKey],
			Gap:  byKey[GapKey],
		}
	case KindOpenAPISchema:
		n.OpenAPI = &OpenAPIAttrs{
			Path:     byKey[OpenAPIPathKey],
			Title:    byKey[TitleKey],
			Expanded: byKey[ExpandedKey],
		}
	}
	return n, nil
}
