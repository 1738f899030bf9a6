package video

const (
	// FramebufferWidth is the CHIP-8 display width in pixels
	FramebufferWidth = 64
	// FramebufferHeight is the CHIP-8 display height in pixels
	FramebufferHeight = 32
	// FramebufferSize is the total number of pixels
	FramebufferSize = FramebufferWidth * FramebufferHeight
)

// FrameBuffer holds the monochrome CHIP-8 display as a flat row-major
// grid of on/off cells. A dirty flag records whether anything changed
// since the last time a consumer looked, so renderers can skip frames
// where nothing was drawn.
type FrameBuffer struct {
	pixels [FramebufferSize]bool
	dirty  bool
}

// NewFrameBuffer creates an empty (all-off) frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func index(x, y int) int {
	x = ((x % FramebufferWidth) + FramebufferWidth) % FramebufferWidth
	y = ((y % FramebufferHeight) + FramebufferHeight) % FramebufferHeight
	return y*FramebufferWidth + x
}

// Get returns the state of the pixel at (x, y). Coordinates wrap around
// the display edges.
func (fb *FrameBuffer) Get(x, y int) bool {
	return fb.pixels[index(x, y)]
}

// Set forces the pixel at (x, y) to the given state.
func (fb *FrameBuffer) Set(x, y int, on bool) {
	fb.pixels[index(x, y)] = on
	fb.dirty = true
}

// Flip XORs the pixel at (x, y) and reports whether it was erased,
// i.e. it was on before the flip. This is the primitive behind sprite
// drawing and its collision flag.
func (fb *FrameBuffer) Flip(x, y int) bool {
	i := index(x, y)
	was := fb.pixels[i]
	fb.pixels[i] = !was
	fb.dirty = true
	return was
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.pixels = [FramebufferSize]bool{}
	fb.dirty = true
}

// MarkDirty raises the changed flag without touching pixel data. Draw
// raises it even for zero-row sprites, matching interpreter behavior.
func (fb *FrameBuffer) MarkDirty() {
	fb.dirty = true
}

// Dirty reports whether the buffer changed since the last ConsumeDirty.
func (fb *FrameBuffer) Dirty() bool {
	return fb.dirty
}

// ConsumeDirty returns the changed flag and lowers it.
func (fb *FrameBuffer) ConsumeDirty() bool {
	d := fb.dirty
	fb.dirty = false
	return d
}

// ToSlice returns the pixels in row-major order. The slice aliases the
// buffer and is only valid until the next mutation.
func (fb *FrameBuffer) ToSlice() []bool {
	return fb.pixels[:]
}

// Pack returns the display packed 8 pixels per byte, MSB first, row-major.
// This is the wire format pushed to remote displays.
func (fb *FrameBuffer) Pack() []byte {
	packed := make([]byte, FramebufferSize/8)
	for i, on := range fb.pixels {
		if on {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}
	return packed
}
