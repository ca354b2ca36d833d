// bios_video.go - INT 10h video services over the B8000 text page
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

const (
	textCols = 80
	textRows = 25
)

// cellAddr returns the physical address of a text cell on the given page.
func cellAddr(page, row, col int) uint32 {
	return vramTextBase + uint32(page)*0x1000 + uint32(row*textCols+col)*2
}

func (b *BIOS) activePage() int {
	return int(b.mem.Read8(bdaActivePage)) & 7
}

func (b *BIOS) cursor(page int) (int, int) {
	pos := b.mem.Read16(bdaCursorPos + uint32(page)*2)
	return int(pos >> 8), int(pos & 0xFF) // row, col
}

func (b *BIOS) setCursor(page, row, col int) {
	b.mem.Write16(bdaCursorPos+uint32(page)*2, uint16(row)<<8|uint16(col))
}

// clearTextPage fills page 0 with blanks in the given attribute.
func (b *BIOS) clearTextPage(attr byte) {
	for row := 0; row < textRows; row++ {
		for col := 0; col < textCols; col++ {
			addr := cellAddr(0, row, col)
			b.mem.Write8(addr, ' ')
			b.mem.Write8(addr+1, attr)
		}
	}
}

// scrollWindow moves the rows of a window up or down by count lines, filling
// the vacated rows with blanks in attr. count 0 clears the window.
func (b *BIOS) scrollWindow(page int, top, left, bottom, right, count int, attr byte, down bool) {
	if bottom >= textRows {
		bottom = textRows - 1
	}
	if right >= textCols {
		right = textCols - 1
	}
	height := bottom - top + 1
	if count <= 0 || count >= height {
		for row := top; row <= bottom; row++ {
			for col := left; col <= right; col++ {
				addr := cellAddr(page, row, col)
				b.mem.Write8(addr, ' ')
				b.mem.Write8(addr+1, attr)
			}
		}
		return
	}

	if !down {
		for row := top; row <= bottom-count; row++ {
			for col := left; col <= right; col++ {
				src := cellAddr(page, row+count, col)
				dst := cellAddr(page, row, col)
				b.mem.Write16(dst, b.mem.Read16(src))
			}
		}
		for row := bottom - count + 1; row <= bottom; row++ {
			for col := left; col <= right; col++ {
				addr := cellAddr(page, row, col)
				b.mem.Write8(addr, ' ')
				b.mem.Write8(addr+1, attr)
			}
		}
		return
	}

	for row := bottom; row >= top+count; row-- {
		for col := left; col <= right; col++ {
			src := cellAddr(page, row-count, col)
			dst := cellAddr(page, row, col)
			b.mem.Write16(dst, b.mem.Read16(src))
		}
	}
	for row := top; row < top+count; row++ {
		for col := left; col <= right; col++ {
			addr := cellAddr(page, row, col)
			b.mem.Write8(addr, ' ')
			b.mem.Write8(addr+1, attr)
		}
	}
}

// writeTTY implements the teletype contract: place the glyph, advance the
// cursor, scroll on the last row. Every byte is also forwarded to the host
// character sink.
func (b *BIOS) writeTTY(ch byte) {
	page := b.activePage()
	row, col := b.cursor(page)

	switch ch {
	case 0x07: // BEL
	case 0x08: // BS
		if col > 0 {
			col--
		}
	case 0x0A: // LF
		row++
	case 0x0D: // CR
		col = 0
	default:
		b.mem.Write8(cellAddr(page, row, col), ch)
		col++
		if col >= textCols {
			col = 0
			row++
		}
	}

	if row >= textRows {
		b.scrollWindow(page, 0, 0, textRows-1, textCols-1, 1, 0x07, false)
		row = textRows - 1
	}
	b.setCursor(page, row, col)
	b.console.PutByte(ch)
}

// svcVideo dispatches INT 10h on AH.
func (b *BIOS) svcVideo() {
	c := b.cpu
	switch c.AH() {
	case 0x00: // set video mode (text modes only; the mode byte is stored)
		b.mem.Write8(bdaVideoMode, c.AL()&0x7F)
		b.mem.Write16(bdaVideoCols, textCols)
		b.clearTextPage(0x07)
		b.setCursor(0, 0, 0)
	case 0x01: // set cursor shape
		b.mem.Write16(bdaCursorShape, c.CX)
	case 0x02: // set cursor position
		b.setCursor(int(c.BH())&7, int(c.DH()), int(c.DL()))
	case 0x03: // get cursor position and shape
		row, col := b.cursor(int(c.BH()) & 7)
		c.SetDH(byte(row))
		c.SetDL(byte(col))
		c.CX = b.mem.Read16(bdaCursorShape)
	case 0x05: // select active page
		b.mem.Write8(bdaActivePage, c.AL()&7)
	case 0x06: // scroll window up
		b.scrollWindow(b.activePage(), int(c.CH()), int(c.CL()), int(c.DH()), int(c.DL()), int(c.AL()), c.BH(), false)
	case 0x07: // scroll window down
		b.scrollWindow(b.activePage(), int(c.CH()), int(c.CL()), int(c.DH()), int(c.DL()), int(c.AL()), c.BH(), true)
	case 0x08: // read character and attribute at cursor
		page := int(c.BH()) & 7
		row, col := b.cursor(page)
		addr := cellAddr(page, row, col)
		c.SetAL(b.mem.Read8(addr))
		c.SetAH(b.mem.Read8(addr + 1))
	case 0x09: // write character and attribute, CX times, no cursor move
		b.writeCharRepeat(c.AL(), c.BL(), int(c.BH())&7, int(c.CX), true)
	case 0x0A: // write character only, CX times
		b.writeCharRepeat(c.AL(), 0, int(c.BH())&7, int(c.CX), false)
	case 0x0E: // teletype output
		b.writeTTY(c.AL())
	case 0x0F: // get video mode
		c.SetAL(b.mem.Read8(bdaVideoMode))
		c.SetAH(byte(b.mem.Read16(bdaVideoCols)))
		c.SetBH(byte(b.activePage()))
	}
}

func (b *BIOS) writeCharRepeat(ch, attr byte, page, count int, withAttr bool) {
	row, col := b.cursor(page)
	for i := 0; i < count; i++ {
		if col >= textCols || row >= textRows {
			break
		}
		addr := cellAddr(page, row, col)
		b.mem.Write8(addr, ch)
		if withAttr {
			b.mem.Write8(addr+1, attr)
		}
		col++
	}
}
