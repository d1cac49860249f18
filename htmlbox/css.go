package htmlbox

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/logger"
	"github.com/emilio/nglayoutng/style"
	"github.com/emilio/nglayoutng/utils"
)

// applyDeclarations parses a style attribute's declaration list and
// applies the properties it understands to st, warning about the rest.
func applyDeclarations(st *style.ComputedStyle, source string) {
	p := css.NewParser(parse.NewInputString(source), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			return
		}
		if gt != css.DeclarationGrammar {
			continue
		}
		prop := strings.ToLower(string(data))
		var values []string
		for _, val := range p.Values() {
			switch val.TokenType {
			case css.WhitespaceToken, css.CommentToken, css.CommaToken:
				continue
			}
			values = append(values, strings.ToLower(string(val.Data)))
		}
		if len(values) == 0 {
			continue
		}
		applyDeclaration(st, prop, values)
	}
}

func applyDeclaration(st *style.ComputedStyle, prop string, values []string) {
	ok := true
	switch prop {
	case "display":
		ok = applyDisplay(st, values[0])
	case "position":
		ok = applyPosition(st, values[0])
	case "float":
		ok = applyFloat(st, values[0])
	case "white-space":
		ok = applyWhiteSpace(st, values[0])
	case "box-sizing":
		ok = applyBoxSizing(st, values[0])
	case "writing-mode":
		ok = applyWritingMode(st, values[0])
	case "direction":
		ok = applyDirection(st, values[0])
	case "width":
		st.Width, ok = parseSize(values[0])
	case "height":
		st.Height, ok = parseSize(values[0])
	case "min-width":
		st.MinWidth, ok = parseSize(values[0])
	case "min-height":
		st.MinHeight, ok = parseSize(values[0])
	case "max-width":
		st.MaxWidth, ok = parseSize(values[0])
	case "max-height":
		st.MaxHeight, ok = parseSize(values[0])
	case "margin":
		ok = applyMarginShorthand(st, values)
	case "margin-top":
		st.MarginTop, ok = parseMargin(values[0])
	case "margin-right":
		st.MarginRight, ok = parseMargin(values[0])
	case "margin-bottom":
		st.MarginBottom, ok = parseMargin(values[0])
	case "margin-left":
		st.MarginLeft, ok = parseMargin(values[0])
	case "padding":
		ok = applyPaddingShorthand(st, values)
	case "padding-top":
		st.PaddingTop, ok = parseLengthPercentage(values[0])
	case "padding-right":
		st.PaddingRight, ok = parseLengthPercentage(values[0])
	case "padding-bottom":
		st.PaddingBottom, ok = parseLengthPercentage(values[0])
	case "padding-left":
		st.PaddingLeft, ok = parseLengthPercentage(values[0])
	case "border-width":
		ok = applyBorderWidthShorthand(st, values)
	case "border-top-width":
		st.BorderTopWidth, ok = parseLength(values[0])
	case "border-right-width":
		st.BorderRightWidth, ok = parseLength(values[0])
	case "border-bottom-width":
		st.BorderBottomWidth, ok = parseLength(values[0])
	case "border-left-width":
		st.BorderLeftWidth, ok = parseLength(values[0])
	case "font-size":
		st.FontSize, ok = parseLength(values[0])
	case "font-family":
		st.FontFamily = parseFontFamily(values)
	default:
		logger.WarningLogger.Printf("ignoring unsupported property %q", prop)
		return
	}
	if !ok {
		logger.WarningLogger.Printf("ignoring unsupported %s value %q", prop, strings.Join(values, " "))
	}
}

func applyDisplay(st *style.ComputedStyle, v string) bool {
	switch v {
	case "inline":
		st.Display = style.DisplayInline
	case "block":
		st.Display = style.DisplayBlock
	case "flow-root":
		st.Display = style.DisplayFlowRoot
	case "inline-block":
		st.Display = style.DisplayInlineBlock
	case "none":
		st.Display = style.DisplayNone
	case "contents":
		st.Display = style.DisplayContents
	default:
		return false
	}
	return true
}

func applyPosition(st *style.ComputedStyle, v string) bool {
	switch v {
	case "static":
		st.Position = style.PositionStatic
	case "relative":
		st.Position = style.PositionRelative
	case "sticky":
		st.Position = style.PositionSticky
	case "absolute":
		st.Position = style.PositionAbsolute
	case "fixed":
		st.Position = style.PositionFixed
	default:
		return false
	}
	return true
}

func applyFloat(st *style.ComputedStyle, v string) bool {
	switch v {
	case "none":
		st.Float = style.FloatNone
	case "left":
		st.Float = style.FloatLeft
	case "right":
		st.Float = style.FloatRight
	default:
		return false
	}
	return true
}

func applyWhiteSpace(st *style.ComputedStyle, v string) bool {
	switch v {
	case "normal":
		st.WhiteSpace = style.WhiteSpaceNormal
	case "nowrap":
		st.WhiteSpace = style.WhiteSpaceNowrap
	case "pre":
		st.WhiteSpace = style.WhiteSpacePre
	case "pre-wrap":
		st.WhiteSpace = style.WhiteSpacePreWrap
	case "pre-line":
		st.WhiteSpace = style.WhiteSpacePreLine
	default:
		return false
	}
	return true
}

func applyBoxSizing(st *style.ComputedStyle, v string) bool {
	switch v {
	case "content-box":
		st.BoxSizing = style.BoxSizingContentBox
	case "border-box":
		st.BoxSizing = style.BoxSizingBorderBox
	default:
		return false
	}
	return true
}

func applyWritingMode(st *style.ComputedStyle, v string) bool {
	switch v {
	case "horizontal-tb":
		st.WritingMode = geometry.HorizontalTB
	case "vertical-rl":
		st.WritingMode = geometry.VerticalRL
	case "vertical-lr":
		st.WritingMode = geometry.VerticalLR
	case "sideways-rl":
		st.WritingMode = geometry.SidewaysRL
	case "sideways-lr":
		st.WritingMode = geometry.SidewaysLR
	default:
		return false
	}
	return true
}

func applyDirection(st *style.ComputedStyle, v string) bool {
	switch v {
	case "ltr":
		st.Direction = geometry.LTR
	case "rtl":
		st.Direction = geometry.RTL
	default:
		return false
	}
	return true
}

func applyMarginShorthand(st *style.ComputedStyle, values []string) bool {
	top, right, bottom, left, ok := expandSides(values)
	if !ok {
		return false
	}
	var vt, vr, vb, vl style.LengthPercentageOrAuto
	if vt, ok = parseMargin(top); !ok {
		return false
	}
	if vr, ok = parseMargin(right); !ok {
		return false
	}
	if vb, ok = parseMargin(bottom); !ok {
		return false
	}
	if vl, ok = parseMargin(left); !ok {
		return false
	}
	st.MarginTop, st.MarginRight, st.MarginBottom, st.MarginLeft = vt, vr, vb, vl
	return true
}

func applyPaddingShorthand(st *style.ComputedStyle, values []string) bool {
	top, right, bottom, left, ok := expandSides(values)
	if !ok {
		return false
	}
	var vt, vr, vb, vl style.LengthPercentage
	if vt, ok = parseLengthPercentage(top); !ok {
		return false
	}
	if vr, ok = parseLengthPercentage(right); !ok {
		return false
	}
	if vb, ok = parseLengthPercentage(bottom); !ok {
		return false
	}
	if vl, ok = parseLengthPercentage(left); !ok {
		return false
	}
	st.PaddingTop, st.PaddingRight, st.PaddingBottom, st.PaddingLeft = vt, vr, vb, vl
	return true
}

func applyBorderWidthShorthand(st *style.ComputedStyle, values []string) bool {
	top, right, bottom, left, ok := expandSides(values)
	if !ok {
		return false
	}
	var vt, vr, vb, vl geometry.Au
	if vt, ok = parseLength(top); !ok {
		return false
	}
	if vr, ok = parseLength(right); !ok {
		return false
	}
	if vb, ok = parseLength(bottom); !ok {
		return false
	}
	if vl, ok = parseLength(left); !ok {
		return false
	}
	st.BorderTopWidth, st.BorderRightWidth, st.BorderBottomWidth, st.BorderLeftWidth = vt, vr, vb, vl
	return true
}

// expandSides expands a 1 to 4 value shorthand into its four sides.
func expandSides(values []string) (top, right, bottom, left string, ok bool) {
	switch len(values) {
	case 1:
		return values[0], values[0], values[0], values[0], true
	case 2:
		return values[0], values[1], values[0], values[1], true
	case 3:
		return values[0], values[1], values[2], values[1], true
	case 4:
		return values[0], values[1], values[2], values[3], true
	}
	return "", "", "", "", false
}

func parseSize(v string) (style.SizeValue, bool) {
	switch v {
	case "auto":
		return style.SizeFromKeyword(style.SizeAuto), true
	case "min-content":
		return style.SizeFromKeyword(style.SizeMinContent), true
	case "max-content":
		return style.SizeFromKeyword(style.SizeMaxContent), true
	}
	lp, ok := parseLengthPercentage(v)
	if !ok {
		return style.SizeValue{}, false
	}
	return style.SizeFromLength(lp), true
}

func parseMargin(v string) (style.LengthPercentageOrAuto, bool) {
	if v == "auto" {
		return style.AutoValue(), true
	}
	lp, ok := parseLengthPercentage(v)
	if !ok {
		return style.LengthPercentageOrAuto{}, false
	}
	return style.LengthOrAuto(lp), true
}

func parseLengthPercentage(v string) (style.LengthPercentage, bool) {
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 32)
		if err != nil {
			return style.LengthPercentage{}, false
		}
		return style.Percent(utils.Fl(f) / 100), true
	}
	length, ok := parseLength(v)
	if !ok {
		return style.LengthPercentage{}, false
	}
	return style.Length(length), true
}

func parseLength(v string) (geometry.Au, bool) {
	if v == "0" {
		return 0, true
	}
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 32)
	if err != nil {
		return 0, false
	}
	return geometry.AuFromPx(utils.Fl(f)), true
}

func parseFontFamily(values []string) []string {
	families := make([]string, 0, len(values))
	for _, v := range values {
		families = append(families, strings.Trim(v, `"'`))
	}
	return families
}
