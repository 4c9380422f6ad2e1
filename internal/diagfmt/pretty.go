package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"aetherscript/internal/diag"
	"aetherscript/internal/source"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// visualWidthUpTo computes the visual column width of s up to byteCol
// (1-based, in bytes), expanding tabs to tabWidth and counting wide/East
// Asian runes as two columns via go-runewidth.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

// Pretty writes bag's diagnostics to w in human-facing form. Callers should
// call bag.Sort() first so output order is deterministic. For each
// diagnostic it prints a one-line header, a source excerpt with a caret/
// tilde underline spanning the primary range, and (per opts) its notes and
// suggestion.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)
	suggestColor := color.New(color.FgGreen, color.Bold)

	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()
	color.NoColor = !opts.Color

	context := int(opts.Context)
	if context <= 0 {
		context = 1
	}

	formatPath := func(f *source.File) string {
		switch opts.PathMode {
		case PathModeAbsolute:
			return f.FormatPath("absolute", "")
		case PathModeRelative:
			return f.FormatPath("relative", fs.BaseDir())
		case PathModeBasename:
			return f.FormatPath("basename", "")
		default:
			return f.FormatPath("auto", "")
		}
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		lineColStart, lineColEnd := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		displayPath := formatPath(f)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(displayPath),
			lineColStart.Line, lineColStart.Col,
			sevColored,
			codeColor.Sprint(d.Code.String()),
			truncateLine(d.Message, opts.Width),
		)

		totalLines := uint32(len(f.LineIdx)) + 1
		if len(f.LineIdx) == 0 && len(f.Content) > 0 {
			totalLines = 1
		}

		startLine := uint32(1)
		if lineColStart.Line > uint32(context) {
			startLine = lineColStart.Line - uint32(context)
		}
		endLine := min(lineColStart.Line+uint32(context), totalLines)

		if startLine > 1 {
			fmt.Fprintln(w, "...")
		}

		lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)

		for lineNum := startLine; lineNum <= endLine; lineNum++ {
			lineText := f.GetLine(lineNum)
			gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
			gutterLen := lineNumWidth + 3

			fmt.Fprint(w, gutter)
			fmt.Fprintln(w, truncateLine(lineText, opts.Width))

			if lineNum != lineColStart.Line {
				continue
			}

			startCol, endCol := lineColStart.Col, lineColEnd.Col
			if lineColEnd.Line > lineColStart.Line {
				endCol = uint32(len(lineText)) + 1
			}
			visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
			visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

			var underline strings.Builder
			for range gutterLen {
				underline.WriteByte(' ')
			}
			for range visualStart {
				underline.WriteByte(' ')
			}
			spanLen := visualEnd - visualStart
			if spanLen <= 0 {
				underline.WriteByte('^')
			} else {
				for i := range spanLen {
					if i == spanLen-1 {
						underline.WriteByte('^')
					} else {
						underline.WriteByte('~')
					}
				}
			}
			fmt.Fprintln(w, underlineColor.Sprint(underline.String()))
		}

		if endLine < totalLines {
			fmt.Fprintln(w, "...")
		}

		if opts.ShowNotes && len(d.Notes) > 0 {
			for _, note := range d.Notes {
				nf := fs.Get(note.Span.File)
				noteStart, _ := fs.Resolve(note.Span)
				fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
					infoColor.Sprint("note"),
					pathColor.Sprint(formatPath(nf)),
					noteStart.Line, noteStart.Col,
					note.Msg,
				)
			}
		}

		if opts.ShowSuggestion && d.Suggestion != "" {
			fmt.Fprintf(w, "  %s: %s\n", suggestColor.Sprint("suggestion"), d.Suggestion)
		}
	}
}

// truncateLine caps s to width visual columns, appending an ellipsis, when
// width is positive and s overflows it. width <= 0 disables truncation.
func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-3, "...")
}
