package loudsdict

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"fortio.org/sets"
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/emit"
	"github.com/npillmayer/loudsdict/entry"
	"github.com/npillmayer/loudsdict/louds"
	"github.com/npillmayer/loudsdict/merge"
	"github.com/npillmayer/loudsdict/segment"
	"github.com/npillmayer/loudsdict/source"
	"github.com/npillmayer/loudsdict/trie"
	"golang.org/x/sync/errgroup"
)

// DefaultSplit is the default number of node blocks per segment file.
const DefaultSplit = 2048

// blockChunk is the number of node blocks one worker encodes at a time.
const blockChunk = 4096

// Compiler compiles one dictionary identifier.
type Compiler struct {
	Identifier string           // file name stem of the emitted files
	OutDir     string           // target directory
	Split      int              // node blocks per segment file
	Denylist   sets.Set[string] // characters disqualifying a word
	Bundle     *source.Bundle   // bundled word lists
	Alphabet   *alphabet.Alphabet
	Conjugator merge.Conjugator       // optional
	Templates  merge.TemplateExpander // optional
}

// Input lists the entry sources of one compilation run.
type Input struct {
	Bundled []string          // names of bundled word lists, in merge order
	Users   []merge.UserEntry // user-added words
	Hotfix  *merge.Hotfix     // nil if no hotfix dictionary is installed
}

// Stats summarizes a compilation run.
type Stats struct {
	Records   int // entries in the global table
	Indexed   int // entries reachable through the trie
	Denied    int // entries excluded by the denylist
	Repaired  int // bundled records with defaulted fields
	Shadowed  int // hotfix entries dropped in favour of user entries
	Nodes     int // trie nodes, root included
	Bits      int // LOUDS bits before padding
	Unmapped  int // node labels missing from the alphabet
	Segments  int // segment files written
	Bytes     int // bytes written
	StaleGone int // stale files removed
}

// Compile runs a complete compilation. Fatal errors (unreadable bundled
// sources, ids outside 16 bits) are reported before any file is written.
func (c *Compiler) Compile(ctx context.Context, in Input) (Stats, error) {
	var stats Stats
	split := c.Split
	if split == 0 {
		split = DefaultSplit
	}
	emitter, err := emit.New(c.OutDir, c.Identifier, split)
	if err != nil {
		return stats, err
	}
	if c.Alphabet == nil {
		return stats, errors.New("compile: no alphabet")
	}
	readers, err := c.Bundle.OpenAll(in.Bundled)
	if err != nil {
		tracer().Errorf("compilation of %s aborted: %v", c.Identifier, err)
		return stats, err
	}
	merger := &merge.Merger{
		Denylist:   c.Denylist,
		Conjugator: c.Conjugator,
		Templates:  c.Templates,
	}
	table, err := merger.Merge(readers, in.Users, in.Hotfix)
	if err != nil {
		return stats, err
	}
	stats.Records, stats.Denied = table.Len(), table.Denied
	stats.Repaired, stats.Shadowed = table.Repaired, table.Dropped
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	builder := trie.NewBuilder()
	for i, rec := range table.Records {
		if !table.Indexable(i) {
			continue
		}
		if err := builder.Insert(rec.Reading, i); err != nil {
			return stats, fmt.Errorf("record %d: %w", i, err)
		}
		stats.Indexed++
	}
	layout := builder.Freeze()
	stats.Nodes = layout.Len() - trie.RootID

	bits := louds.Encode(layout)
	labels, unmapped := louds.Labels(layout, c.Alphabet)
	stats.Bits, stats.Unmapped = bits.Len(), unmapped
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	blocks, err := encodeBlocks(ctx, layout, table)
	if err != nil {
		tracer().Errorf("compilation of %s aborted: %v", c.Identifier, err)
		return stats, err
	}
	res, err := emitter.Emit(bits.Words(), labels, blocks)
	if err != nil {
		return stats, err
	}
	stats.Segments, stats.Bytes, stats.StaleGone = res.Segments, res.Bytes, len(res.Removed)
	tracer().Infof("compiled %s: %d records, %d indexed, %d nodes, %d segments",
		c.Identifier, stats.Records, stats.Indexed, stats.Nodes, stats.Segments)
	return stats, nil
}

// encodeBlocks serializes the block of every node id. Chunks of ids are
// encoded in parallel; each worker writes only its own slots, so the result
// is in id order regardless of scheduling.
func encodeBlocks(ctx context.Context, layout *trie.Layout, table *merge.Table) ([][]byte, error) {
	blocks := make([][]byte, layout.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(blocks); start += blockChunk {
		end := min(start+blockChunk, len(blocks))
		g.Go(func() error {
			for id := start; id < end; id++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				block, err := encodeNode(layout.Nodes[id], table)
				if err != nil {
					return fmt.Errorf("node %d: %w", id, err)
				}
				blocks[id] = block
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func encodeNode(n trie.Node, table *merge.Table) ([]byte, error) {
	if len(n.Entries) == 0 {
		return segment.EncodeBlock("", nil)
	}
	records := make([]entry.Record, len(n.Entries))
	for i, idx := range n.Entries {
		records[i] = table.Records[idx]
	}
	assert(records[0].Reading != "", "compile: entry with empty reading in trie")
	return segment.EncodeBlock(records[0].Reading, records)
}
