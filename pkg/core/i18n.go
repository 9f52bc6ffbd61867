package core

import (
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator turns a message format and its arguments into a human readable,
// possibly localized string.
type Translator interface {
	Translate(format string, args ...any) string
}

// PrinterTranslator translates through an x/text message printer. Messages
// registered in the printer's catalog are localized; others are formatted as is.
type PrinterTranslator struct {
	printer *message.Printer
}

// NewPrinterTranslator returns a translator for the given language tag.
func NewPrinterTranslator(tag language.Tag) *PrinterTranslator {
	return &PrinterTranslator{printer: message.NewPrinter(tag)}
}

// Translate implements Translator.
func (t *PrinterTranslator) Translate(format string, args ...any) string {
	return t.printer.Sprintf(format, args...)
}

// translatorBox keeps the stored dynamic type constant for atomic.Value.
type translatorBox struct{ Translator }

var translator atomic.Value

func init() {
	translator.Store(translatorBox{NewPrinterTranslator(language.English)})
}

// SetTranslator replaces the package-wide translator used for error messages.
func SetTranslator(t Translator) {
	if t != nil {
		translator.Store(translatorBox{t})
	}
}

// Translate formats a message with the package-wide translator.
func Translate(format string, args ...any) string {
	return translator.Load().(translatorBox).Translate(format, args...)
}
