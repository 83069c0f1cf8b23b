package style

// Decoration class names carried on Mark directives. The host maps them
// to concrete styles through a Sheet.
const (
	// ClassComment marks the payload of a comment annotation.
	ClassComment = "annotation-comment"

	// ClassMask marks the payload of a mask annotation when the raw
	// text is visible (cursor inside, or plain source mode).
	ClassMask = "annotation-mask"

	// ClassMaskWidget marks the container of a whole-span mask widget.
	ClassMaskWidget = "annotation-mask-widget"
)

// AttrComment is the directive attribute key carrying the comment text,
// so a hover handler can recover the note from the rendered span.
const AttrComment = "data-annotation-comment"

// Sheet holds the concrete styles for every decoration class, derived
// from user configuration. Rebuilt synchronously whenever configuration
// changes.
type Sheet struct {
	// Highlight is the comment payload style.
	Highlight Style

	// Mask is the blurred-span style.
	Mask Style

	// TooltipBackground and TooltipText style the floating tooltip.
	TooltipBackground Color
	TooltipText       Color

	// BlurRadius is the mask blur radius in pixels, for hosts that
	// render a real blur. Text hosts approximate with Mask's attributes.
	BlurRadius int
}

// NewSheet derives a sheet from configuration values.
func NewSheet(highlight, tooltipBg, tooltipText Color, blurRadius int) Sheet {
	return Sheet{
		Highlight:         DefaultStyle().WithBackground(highlight),
		Mask:              DefaultStyle().WithForeground(highlight.Darken(0.6)).Dim(),
		TooltipBackground: tooltipBg,
		TooltipText:       tooltipText,
		BlurRadius:        blurRadius,
	}
}

// ForClass resolves a decoration class name to its style.
// Unknown classes resolve to the default style.
func (s Sheet) ForClass(class string) Style {
	switch class {
	case ClassComment:
		return s.Highlight
	case ClassMask, ClassMaskWidget:
		return s.Mask
	default:
		return DefaultStyle()
	}
}
