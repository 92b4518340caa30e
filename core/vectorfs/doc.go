// Package vectorfs is the vector-resource boundary for
// retrieval-augmented job processing: embedded text chunks stored per
// job and searched by cosine similarity.
package vectorfs
