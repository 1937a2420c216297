package saveparser

const (
	BraceOpenToken TokenType = iota + 1
	BraceCloseToken
	EqualToken

	IntegerToken
	FloatToken
	StringToken

	// StuckToken is emitted when no production matches at the current
	// position; the scanner cannot advance past it. Offset and Excerpt
	// on the Scanner describe the position.
	StuckToken

	EOFToken
)

func (tt TokenType) GoString() string {
	return tokenToDescription[tt]
}

func (tt TokenType) String() string {
	return tokenToDescription[tt]
}

func init() {
	// make sure we panic if a description isn't declared
	for tt := TokenType(1); tt <= EOFToken; tt++ {
		if tokenToDescription[tt] == "" {
			panic("you have not updated tokenToDescription")
		}
	}
}

var tokenToDescription = map[TokenType]string{
	BraceOpenToken:  "BraceOpenToken",
	BraceCloseToken: "BraceCloseToken",
	EqualToken:      "EqualToken",

	IntegerToken: "IntegerToken",
	FloatToken:   "FloatToken",
	StringToken:  "StringToken",

	StuckToken: "StuckToken",
	EOFToken:   "EOFToken",
}

// IsLiteral reports whether tt is one of the three scalar token kinds.
func (tt TokenType) IsLiteral() bool {
	return tt == StringToken || tt == IntegerToken || tt == FloatToken
}

// IsKey reports whether tt may start a key = value pair.
func (tt TokenType) IsKey() bool {
	return tt == StringToken || tt == IntegerToken
}
