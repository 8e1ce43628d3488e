// Package normalisers provides implementations of the Normaliser interface
// for the supported note formats. Each normaliser knows how to extract text
// sections from a specific MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
