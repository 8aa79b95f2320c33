package style

// Text alignment values accepted by cell styles.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"

	VerticalAlignTop    = "top"
	VerticalAlignMiddle = "middle"
	VerticalAlignBottom = "bottom"
)

// CellStyle is the fully resolved style of one table cell. Lengths are in mm,
// FontSize and CharacterSpacing in points.
type CellStyle struct {
	FontName          string
	FontSize          float64
	LineHeight        float64
	CharacterSpacing  float64
	Alignment         string
	VerticalAlignment string
	FontColor         string
	BackgroundColor   string
	BorderColor       string
	BorderWidth       Spacing
	Padding           Spacing
	MinCellHeight     float64
}

// Defaults returns the base style every cascade starts from.
func Defaults() CellStyle {
	return CellStyle{
		FontSize:          10,
		LineHeight:        1,
		Alignment:         AlignLeft,
		VerticalAlignment: VerticalAlignMiddle,
		FontColor:         "#000000",
		BorderColor:       "#888888",
		BorderWidth:       Uniform(0.1),
		Padding:           Uniform(5),
	}
}

// Layer is a partial style. Only non-nil fields override the layers below.
type Layer struct {
	FontName          *string  `yaml:"fontName,omitempty" json:"fontName,omitempty"`
	FontSize          *float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	LineHeight        *float64 `yaml:"lineHeight,omitempty" json:"lineHeight,omitempty"`
	CharacterSpacing  *float64 `yaml:"characterSpacing,omitempty" json:"characterSpacing,omitempty"`
	Alignment         *string  `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	VerticalAlignment *string  `yaml:"verticalAlignment,omitempty" json:"verticalAlignment,omitempty"`
	FontColor         *string  `yaml:"fontColor,omitempty" json:"fontColor,omitempty"`
	BackgroundColor   *string  `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor       *string  `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
	BorderWidth       *Spacing `yaml:"borderWidth,omitempty" json:"borderWidth,omitempty"`
	Padding           *Spacing `yaml:"padding,omitempty" json:"padding,omitempty"`
	MinCellHeight     *float64 `yaml:"minCellHeight,omitempty" json:"minCellHeight,omitempty"`
}

// IsEmpty reports whether the layer overrides nothing.
func (l Layer) IsEmpty() bool {
	return l == Layer{}
}

// Clone returns a copy that shares no pointers with l.
func (l Layer) Clone() Layer {
	return Layer{
		FontName:          clonePtr(l.FontName),
		FontSize:          clonePtr(l.FontSize),
		LineHeight:        clonePtr(l.LineHeight),
		CharacterSpacing:  clonePtr(l.CharacterSpacing),
		Alignment:         clonePtr(l.Alignment),
		VerticalAlignment: clonePtr(l.VerticalAlignment),
		FontColor:         clonePtr(l.FontColor),
		BackgroundColor:   clonePtr(l.BackgroundColor),
		BorderColor:       clonePtr(l.BorderColor),
		BorderWidth:       clonePtr(l.BorderWidth),
		Padding:           clonePtr(l.Padding),
		MinCellHeight:     clonePtr(l.MinCellHeight),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy when building layers in code.
func Ptr[T any](v T) *T {
	return &v
}
