package alphabet

// pagedMap maps BMP code points (0..65535) to alphabet slots.
// It's a two-level page table:
//   - top[hi] = page index (1..numPages), or 0 meaning "page absent".
//   - pages is a flat array of numPages*256 entries.
//
// A slot value of 0 means "not in the alphabet", so codes are stored as code+1.
type pagedMap struct {
	top   [256]uint16 // page index (1-based); 0 means none
	pages []uint16    // flat: numPages*256
}

// lookup returns the stored slot value for a BMP code point, 0 if absent.
func (m *pagedMap) lookup(bmp uint16) uint16 {
	pi := m.top[bmp>>8]
	if pi == 0 {
		return 0
	}
	base := int(pi-1) << 8 // *256
	return m.pages[base+int(bmp&0xFF)]
}

func (m *pagedMap) numPages() int { return len(m.pages) >> 8 }

// ensurePage ensures that the page for high byte hi exists and returns its
// 1-based index.
func (m *pagedMap) ensurePage(hi uint16) uint16 {
	pi := m.top[hi]
	if pi != 0 {
		return pi
	}
	m.pages = append(m.pages, make([]uint16, 256)...)
	pi = uint16(m.numPages())
	m.top[hi] = pi
	return pi
}

func (m *pagedMap) set(bmp uint16, slot uint16) {
	pi := m.top[bmp>>8]
	if pi == 0 {
		if slot == 0 {
			return
		}
		pi = m.ensurePage(bmp >> 8)
	}
	base := int(pi-1) << 8
	m.pages[base+int(bmp&0xFF)] = slot
}
