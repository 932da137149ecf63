package document

import "errors"

var (
	// ErrNotPDF is returned when a file offered for conversion does not have
	// a .pdf extension.
	ErrNotPDF = errors.New("regscan: not a PDF file")

	// ErrConversion is returned when a source file is unreadable or not a
	// valid PDF. It aborts that document only.
	ErrConversion = errors.New("regscan: conversion failed")

	// ErrNoPages is returned when a document directory contains no page
	// images.
	ErrNoPages = errors.New("regscan: document has no page images")

	// ErrUnknownType is returned for a document type label with no layout.
	// It is fatal to the whole run.
	ErrUnknownType = errors.New("regscan: unknown document type")

	// ErrOutputExists is returned when conversion output for a document is
	// already present and forced overwrite was not requested.
	ErrOutputExists = errors.New("regscan: output directory already exists")
)
