package segment

import (
	"encoding/binary"
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// MaxBlocks is the largest number of blocks one segment can hold.
const MaxBlocks = 1<<16 - 1

var ErrSegmentTooLarge = errors.New("segment exceeds format limits")

// Encode concatenates blocks into one segment:
//
//	u16 blockCount
//	blockCount x u32 offset   (absolute; the first is 2 + 4*blockCount)
//	blocks
func Encode(blocks [][]byte) ([]byte, error) {
	count, err := safecast.Convert[uint16](len(blocks))
	if err != nil {
		return nil, fmt.Errorf("%w: %d blocks", ErrSegmentTooLarge, len(blocks))
	}
	header := 2 + 4*len(blocks)
	size := header
	for _, b := range blocks {
		size += len(b)
	}
	if _, err := safecast.Convert[uint32](size); err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrSegmentTooLarge, size)
	}
	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint16(buf, count)
	offset := header
	for _, b := range blocks {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(offset))
		offset += len(b)
	}
	for _, b := range blocks {
		buf = append(buf, b...)
	}
	return buf, nil
}

// Decode splits a segment into its blocks.
func Decode(data []byte) ([][]byte, error) {
	count, err := blockCount(data)
	if err != nil {
		return nil, err
	}
	blocks := make([][]byte, count)
	for i := range count {
		if blocks[i], err = BlockAt(data, i); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// BlockAt returns block i of a segment without looking at the others.
func BlockAt(data []byte, i int) ([]byte, error) {
	count, err := blockCount(data)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= count {
		return nil, fmt.Errorf("block %d out of range [0,%d)", i, count)
	}
	start := int(binary.LittleEndian.Uint32(data[2+4*i:]))
	end := len(data)
	if i+1 < count {
		end = int(binary.LittleEndian.Uint32(data[2+4*(i+1):]))
	}
	if start < 2+4*count || start > end || end > len(data) {
		return nil, fmt.Errorf("%w: block %d spans [%d,%d)", ErrCorrupt, i, start, end)
	}
	return data[start:end], nil
}

func blockCount(data []byte) (int, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("%w: segment of %d bytes", ErrCorrupt, len(data))
	}
	count := int(binary.LittleEndian.Uint16(data))
	if len(data) < 2+4*count {
		return 0, fmt.Errorf("%w: header of %d blocks truncated", ErrCorrupt, count)
	}
	return count, nil
}

// Partition splits blocks into consecutive groups of split blocks. The last
// group may be shorter.
func Partition(blocks [][]byte, split int) [][][]byte {
	groups := make([][][]byte, 0, (len(blocks)+split-1)/split)
	for start := 0; start < len(blocks); start += split {
		groups = append(groups, blocks[start:min(start+split, len(blocks))])
	}
	return groups
}
