package rules

func notGlued(text string, offset int) bool {
	if offset == 0 {
		return true
	}
	c := text[offset-1]
	return !(c == '_' || IsDigit(c, 36))
}

func nextIsDigit(text string, offset int) bool {
	return offset+1 < len(text) && IsDigit(text[offset+1], 10)
}

func combine(groups ...[]*Delimiter) []*Delimiter {
	var all []*Delimiter
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func standardContexts() []*Context {
	stringQuote := describe("string delimiter",
		&Delimiter{Text: `"`, Context: StringContext, Start: true, End: true})
	charQuote := describe("char delimiter",
		&Delimiter{Text: "'", Context: CharContext, Start: true, End: true})
	escape := describe("char escape sequence",
		&Delimiter{Text: `\`, Parse: Unescape})
	expression := describe("expression delimiter",
		&Delimiter{Text: "(", Context: ExpressionContext, Start: true},
		&Delimiter{Text: ")", Context: ExpressionContext, End: true})
	codeBody := describe("code body delimiter",
		&Delimiter{Text: "{", Context: CodeBodyContext, Start: true},
		&Delimiter{Text: "}", Context: CodeBodyContext, End: true})
	squareBrace := describe("square brace delimiter",
		&Delimiter{Text: "[", Context: SquareBraceContext, Start: true},
		&Delimiter{Text: "]", Context: SquareBraceContext, End: true})
	membership := describe("membership operator",
		&Delimiter{Text: ".", Name: "member"},
		&Delimiter{Text: "->", Name: "pointee"},
		&Delimiter{Text: "::", Name: "scope resolution"},
		&Delimiter{Text: "?.", Name: "null conditional"})
	hexPrefix := describe("hex number prefix",
		&Delimiter{Text: "0x", Context: HexContext, Parse: Hexadecimal, Require: notGlued})
	number := describe("number",
		&Delimiter{Text: "-", Context: NumberContext, Parse: Numeric, Require: func(text string, offset int) bool {
			if !notGlued(text, offset) || offset+1 >= len(text) {
				return false
			}
			return text[offset+1] == '.' || IsDigit(text[offset+1], 10)
		}},
		&Delimiter{Text: ".", Context: NumberContext, Parse: Numeric, Require: func(text string, offset int) bool {
			return notGlued(text, offset) && nextIsDigit(text, offset)
		}})
	for d := byte('0'); d <= '9'; d++ {
		number = append(number, describe("number",
			&Delimiter{Text: string(d), Context: NumberContext, Parse: Numeric, Require: notGlued})...)
	}
	blockComment := describe("block comment delimiter",
		&Delimiter{Text: "/*", Context: BlockComment, Start: true},
		&Delimiter{Text: "*/", Context: BlockComment, End: true})
	lineComment := describe("line comment delimiter",
		&Delimiter{Text: "//", Context: LineComment, Start: true})
	docComment := describe("doc comment delimiter",
		&Delimiter{Text: "///", Context: DocComment, Start: true})
	endOfLineComment := describe("end of line comment",
		&Delimiter{Text: "\n", Context: LineComment, End: true})
	endOfDocComment := describe("end of doc comment",
		&Delimiter{Text: "\n", Context: DocComment, End: true})
	endOfString := describe("erroneous end of string",
		&Delimiter{Text: "\n", Context: StringContext, End: true, Parse: func(string, int) ParseResult {
			return ParseResult{Length: 1}.withError("newline in string literal", 0)
		}})
	commentContinuation := describe("line comment continuation",
		&Delimiter{Text: `\`, Parse: CommentEscape})

	standard := combine(stringQuote, charQuote, expression, codeBody, squareBrace,
		plain("ternary operator delimiter", "?", ":", "??"),
		plain("instruction finished delimiter", ";"),
		plain("list item delimiter", ","),
		membership,
		plain("prefix unary operator", "++", "--", "!", "-", "~"),
		plain("binary operator", "&", "|", "<<", ">>", "^"),
		plain("binary logic operator", "==", "!=", "<", ">", "<=", ">="),
		plain("logical operator", "&&", "||"),
		plain("assignment operator", "+=", "-=", "*=", "/=", "%=", "|=", "&=", "<<=", ">>=", "??=", "="),
		plain("lambda operator", "=>"),
		blockComment, lineComment, docComment, hexPrefix, number)

	enclosure := func(name string) *Context {
		return &Context{Name: name, Whitespace: DefaultWhitespace, Delimiters: standard}
	}
	return []*Context{
		enclosure(DefaultContext),
		{Name: StringContext, Delimiters: combine(escape, stringQuote, endOfString)},
		{Name: CharContext, Delimiters: combine(escape, charQuote)},
		{Name: NumberContext, Delimiters: standard},
		enclosure(HexContext),
		enclosure(ExpressionContext),
		enclosure(SquareBraceContext),
		enclosure(CodeBodyContext),
		{Name: LineComment, Delimiters: combine(commentContinuation, endOfLineComment)},
		{Name: DocComment, Whitespace: DefaultWhitespace, Delimiters: combine(commentContinuation, endOfDocComment)},
		{Name: BlockComment, Whitespace: DefaultWhitespace, Delimiters: blockComment},
	}
}
