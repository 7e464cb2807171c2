/*
Package loudsdict compiles Japanese input-method dictionaries into a LOUDS
index.

A compilation run merges bundled word lists, user-added words and a hotfix
dictionary into one entry table, inserts every entry into a trie keyed by
its reading, and writes the trie as a small set of binary files: a LOUDS
bit-vector describing the trie's shape, a label array with one alphabet code
per node, and segment files holding the entries of every node. A lookup
engine memory-maps these files and walks the trie without pointers.

The build is a batch job. It either completes or fails before any file is
written; every file is replaced atomically.

Sub-packages implement the individual stages:

	alphabet   character <-> byte code mapping
	entry      record parsing and defaulting
	source     bundled word lists
	merge      source merging, hotfix de-duplication, denylist
	trie       trie construction and level-order numbering
	louds      bit-vector and label encoding, verification reader
	segment    node blocks and segment files
	emit       file output

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package loudsdict

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
