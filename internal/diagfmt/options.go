package diagfmt

// PathMode selects how a source file's path is displayed in a diagnostic
// header.
type PathMode uint8

const (
	// PathModeAuto shows the path as stored when it is shorter than 40 bytes
	// or not absolute, and its basename otherwise.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures Pretty's output.
type PrettyOpts struct {
	// Color enables ANSI severity/path coloring via github.com/fatih/color.
	Color bool
	// Context is the number of source lines shown above and below the
	// primary span's line. A value of 0 is treated as 1.
	Context int8
	PathMode PathMode
	// Width caps the rendered width of a source-line excerpt; 0 means
	// unbounded. Use DetectWidth to fill this from the terminal.
	Width int
	// ShowNotes prints each diagnostic's attached Notes under its excerpt.
	ShowNotes bool
	// ShowSuggestion prints the diagnostic's one-line Suggestion, if any.
	ShowSuggestion bool
}

// DefaultOpts is a reasonable starting point for terminal output.
func DefaultOpts() PrettyOpts {
	return PrettyOpts{
		Color:          true,
		Context:        1,
		PathMode:       PathModeAuto,
		ShowNotes:      true,
		ShowSuggestion: true,
	}
}
