// Package errs definiert die Fehler-Taxonomie des Template-Moduls.
package errs

import (
	"errors"
	"fmt"
)

// Code klassifiziert einen Fehler.
type Code string

const (
	// CodeInvalidArgument: ein Pflichtargument fehlt. Wird vor jeglichem I/O erkannt.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeMalformedTemplate: das eingereichte Dokument ist kein gültiges Template.
	CodeMalformedTemplate Code = "malformed_template"
	// CodeDuplicateTemplate: Identifier existiert bereits oder Template ist schon gespeichert.
	CodeDuplicateTemplate Code = "duplicate_template"
	// CodeStorageFailure: Dateisystem oder Datenbank haben unerwartet versagt.
	CodeStorageFailure Code = "storage_failure"
)

// Error ist ein klassifizierter Fehler mit optionaler Ursache.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is erlaubt errors.Is(err, &Error{Code: ...}) als Code-Vergleich.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Code == e.Code
}

// New erzeugt einen Fehler ohne Ursache.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf wie New, mit Formatierung.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap klassifiziert err. Ein nil-Fehler bleibt nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode prüft, ob irgendein Fehler in der Kette den gegebenen Code trägt.
func HasCode(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// CodeOf liefert den äußersten Code, oder "" für unklassifizierte Fehler.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Sentinels für errors.Is.
var (
	ErrInvalidArgument   = &Error{Code: CodeInvalidArgument}
	ErrMalformedTemplate = &Error{Code: CodeMalformedTemplate}
	ErrDuplicateTemplate = &Error{Code: CodeDuplicateTemplate}
	ErrStorageFailure    = &Error{Code: CodeStorageFailure}
)
