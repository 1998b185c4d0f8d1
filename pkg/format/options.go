package format

// DefaultIndentWidth is the number of spaces per indentation level.
const DefaultIndentWidth = 2

// Options holds the style settings read by the formatter.
type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

// indentUnit returns the text written for one indentation level.
func (o Options) indentUnit() string {
	if o.UseTabs {
		return "\t"
	}
	buf := make([]byte, o.IndentWidth)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}

// BuildContext is handed to every rule. It is passed by value and rules
// never modify it; a rule that wants its descendants laid out vertically
// emits FormatWide steps instead.
type BuildContext struct {
	// Vertical is set when an ancestor already committed to a
	// multi-line layout.
	Vertical bool
	Options  Options
}
