package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Standard terminal sizes for testing.
var (
	// Compact is the classic 80x24 terminal.
	Compact = Size{Width: 80, Height: 24}
	// Standard is a typical modern terminal.
	Standard = Size{Width: 120, Height: 40}
	// Narrow is too narrow for one dot per page in long books.
	Narrow = Size{Width: 40, Height: 20}
)
