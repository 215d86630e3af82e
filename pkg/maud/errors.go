package maud

import (
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/yaklabco/maudfmt/pkg/source"
)

// Error code for template diagnostics.
const ErrCodeParse = "MAUD_PARSE"

// Metadata keys attached to diagnostics.
const (
	MetaKeyLine   = "line"
	MetaKeyColumn = "column"
	MetaKeyToken  = "token"
)

// Diagnostic messages.
const (
	ErrMsgUnexpectedToken   = "unexpected token in markup"
	ErrMsgExpectedBody      = "expected `;` or `{` to end element"
	ErrMsgExpectedValue     = "expected literal, splice or block as attribute value"
	ErrMsgExpectedName      = "expected name"
	ErrMsgExpectedBlock     = "expected `{`"
	ErrMsgExpectedControl   = "expected if, for, let, match or while after `@`"
	ErrMsgMissingIn         = "expected `in` in for loop"
	ErrMsgMissingSemicolon  = "expected `;` after let binding"
	ErrMsgMissingArrow      = "expected `=>` in match arm"
	ErrMsgMissingLetValue   = "expected `=` in let condition"
	ErrMsgEmptyCondition    = "expected condition"
	ErrMsgExpectedArmBody   = "expected markup after `=>`"
	ErrMsgBlockComment      = "block comments inside templates are not supported"
	ErrMsgCommentBeforeElse = "comment between `}` and `@else` is not supported"
	ErrMsgCommentPlacement  = "comment in this position is not supported"
)

// Diagnostic builds a template diagnostic at offset for a problem found
// after parsing, such as during layout.
func Diagnostic(file *source.File, offset int, msg string) error {
	return newParseError(file, offset, msg, "")
}

// newParseError builds a diagnostic positioned at offset.
func newParseError(file *source.File, offset int, msg, token string) error {
	pos := file.Position(offset)
	err := cuserr.NewValidationError(ErrCodeParse, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line+1)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column+1))
	if token != "" {
		err = err.WithMetadata(MetaKeyToken, token)
	}
	return err
}
