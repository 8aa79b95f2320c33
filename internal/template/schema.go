package template

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/gomlayout/internal/style"
)

// Defaults applied to text measurement when a schema leaves them unset.
const (
	DefaultFontSize   = 13.0
	DefaultLineHeight = 1.0
)

// FieldType is the authored type name of a schema.
type FieldType string

// Kind is the closed set of layout behaviours a field type maps to.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindTable
	KindImage
	KindBarcode
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindBarcode:
		return "barcode"
	case KindShape:
		return "shape"
	}
	return "unknown"
}

var kinds = map[FieldType]Kind{
	"text":              KindText,
	"multiVariableText": KindText,
	"date":              KindText,
	"time":              KindText,
	"dateTime":          KindText,
	"select":            KindText,
	"radioGroup":        KindText,
	"checkbox":          KindText,
	"table":             KindTable,
	"image":             KindImage,
	"svg":               KindImage,
	"signature":         KindImage,
	"qrcode":            KindBarcode,
	"japanpost":         KindBarcode,
	"ean13":             KindBarcode,
	"ean8":              KindBarcode,
	"code39":            KindBarcode,
	"code128":           KindBarcode,
	"nw7":               KindBarcode,
	"itf14":             KindBarcode,
	"upca":              KindBarcode,
	"upce":              KindBarcode,
	"gs1datamatrix":     KindBarcode,
	"pdf417":            KindBarcode,
	"line":              KindShape,
	"rectangle":         KindShape,
	"ellipse":           KindShape,
}

// Kind returns the layout behaviour of the type. Unknown types behave like
// images: atomic, with their authored height.
func (t FieldType) Kind() Kind {
	return kinds[t]
}

// Position is the top-left corner of a field in mm.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Range is a half-open interval [Start, End) of table body rows.
type Range struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// TextProps are the text properties that influence measured height.
type TextProps struct {
	FontName         string  `yaml:"fontName,omitempty" json:"fontName,omitempty"`
	FontSize         float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	LineHeight       float64 `yaml:"lineHeight,omitempty" json:"lineHeight,omitempty"`
	CharacterSpacing float64 `yaml:"characterSpacing,omitempty" json:"characterSpacing,omitempty"`
}

// FontSizeOrDefault returns FontSize, or DefaultFontSize when unset.
func (p TextProps) FontSizeOrDefault() float64 {
	if p.FontSize > 0 {
		return p.FontSize
	}
	return DefaultFontSize
}

// LineHeightOrDefault returns LineHeight, or DefaultLineHeight when unset.
func (p TextProps) LineHeightOrDefault() float64 {
	if p.LineHeight > 0 {
		return p.LineHeight
	}
	return DefaultLineHeight
}

// TableStyles are the table-wide border settings.
type TableStyles struct {
	BorderColor string  `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
	BorderWidth float64 `yaml:"borderWidth,omitempty" json:"borderWidth,omitempty"`
}

// Layer converts table-wide settings into a style layer.
func (s TableStyles) Layer() style.Layer {
	var l style.Layer
	if s.BorderColor != "" {
		l.BorderColor = style.Ptr(s.BorderColor)
	}
	if s.BorderWidth > 0 {
		l.BorderWidth = style.Ptr(style.Uniform(s.BorderWidth))
	}
	return l
}

// Section names a part of a table.
type Section string

const (
	SectionHead Section = "head"
	SectionBody Section = "body"
)

// CellOverride is a style layer for a single cell.
type CellOverride struct {
	Section Section     `yaml:"section" json:"section"`
	Row     int         `yaml:"row" json:"row"`
	Column  int         `yaml:"column" json:"column"`
	Style   style.Layer `yaml:"style" json:"style"`
}

// HeadRows are the header rows of a table. A single flat list of strings is
// accepted as one row.
type HeadRows [][]string

// UnmarshalYAML accepts either a list of rows or a single row.
func (h *HeadRows) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: head must be a list", n.Line)
	}
	if len(n.Content) > 0 && n.Content[0].Kind == yaml.ScalarNode {
		var row []string
		if err := n.Decode(&row); err != nil {
			return err
		}
		*h = HeadRows{row}
		return nil
	}
	var rows [][]string
	if err := n.Decode(&rows); err != nil {
		return err
	}
	*h = rows
	return nil
}

// ColumnStyles maps a column index to its style layer.
type ColumnStyles map[int]style.Layer

// UnmarshalYAML accepts integer keys as well as quoted ones, so JSON
// documents decode too.
func (c *ColumnStyles) UnmarshalYAML(n *yaml.Node) error {
	var raw map[string]style.Layer
	if err := n.Decode(&raw); err != nil {
		return err
	}
	out := make(ColumnStyles, len(raw))
	for k, v := range raw {
		i, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("line %d: column style key %q is not a column index", n.Line, k)
		}
		out[i] = v
	}
	*c = out
	return nil
}

// TableProps are the table specific schema properties.
type TableProps struct {
	Head                     HeadRows       `yaml:"head,omitempty" json:"head,omitempty"`
	HeadWidthPercentages     []float64      `yaml:"headWidthPercentages,omitempty" json:"headWidthPercentages,omitempty"`
	ShowHead                 bool           `yaml:"showHead,omitempty" json:"showHead,omitempty"`
	RepeatHead               bool           `yaml:"repeatHead,omitempty" json:"repeatHead,omitempty"`
	TableStyles              TableStyles    `yaml:"tableStyles,omitempty" json:"tableStyles,omitzero"`
	HeadStyles               style.Layer    `yaml:"headStyles,omitempty" json:"headStyles,omitzero"`
	BodyStyles               style.Layer    `yaml:"bodyStyles,omitempty" json:"bodyStyles,omitzero"`
	AlternateBackgroundColor string         `yaml:"alternateBackgroundColor,omitempty" json:"alternateBackgroundColor,omitempty"`
	ColumnStyles             ColumnStyles   `yaml:"columnStyles,omitempty" json:"columnStyles,omitempty"`
	CellStyles               []CellOverride `yaml:"cellStyles,omitempty" json:"cellStyles,omitempty"`
}

// Schema is one positioned, typed field.
type Schema struct {
	Name     string    `yaml:"name" json:"name"`
	Type     FieldType `yaml:"type" json:"type"`
	Position Position  `yaml:"position" json:"position"`
	Width    float64   `yaml:"width" json:"width"`
	Height   float64   `yaml:"height" json:"height"`
	Rotate   float64   `yaml:"rotate,omitempty" json:"rotate,omitempty"`
	Opacity  float64   `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	ReadOnly bool      `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	Content  string    `yaml:"content,omitempty" json:"content,omitempty"`

	TextProps  `yaml:",inline"`
	TableProps `yaml:",inline"`

	// set on table fragments produced by layout
	BodyRange *Range `yaml:"bodyRange,omitempty" json:"bodyRange,omitempty"`
	IsSplit   bool   `yaml:"isSplit,omitempty" json:"isSplit,omitempty"`
}

// Bottom returns the authored bottom edge, Position.Y + Height.
func (s *Schema) Bottom() float64 {
	return s.Position.Y + s.Height
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Head != nil {
		c.Head = make(HeadRows, len(s.Head))
		for i, row := range s.Head {
			c.Head[i] = append([]string(nil), row...)
		}
	}
	c.HeadWidthPercentages = append([]float64(nil), s.HeadWidthPercentages...)
	c.HeadStyles = s.HeadStyles.Clone()
	c.BodyStyles = s.BodyStyles.Clone()
	if s.ColumnStyles != nil {
		c.ColumnStyles = make(ColumnStyles, len(s.ColumnStyles))
		for k, v := range s.ColumnStyles {
			c.ColumnStyles[k] = v.Clone()
		}
	}
	if s.CellStyles != nil {
		c.CellStyles = make([]CellOverride, len(s.CellStyles))
		for i, o := range s.CellStyles {
			o.Style = o.Style.Clone()
			c.CellStyles[i] = o
		}
	}
	if s.BodyRange != nil {
		r := *s.BodyRange
		c.BodyRange = &r
	}
	return &c
}
