// Package textextract converts inbox files to plain text through an
// unstructured-text extraction server. The scheduler hands processors a
// non-owning reference to an Extractor; the server itself is an
// external collaborator.
package textextract
