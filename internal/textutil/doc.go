// Package textutil provides filename helpers shared by the response cache and
// the static artifact writers.
package textutil
