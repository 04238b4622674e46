package layout

// Order names a traversal order over the logical elements of a layout.
type Order int

const (
	// C is row-major order: the last axis varies fastest.
	C Order = iota

	// F is column-major (Fortran) order: the first axis varies fastest.
	F

	// S is storage order: axes are visited by increasing |stride|.
	S

	// A resolves to the layout's own dense order, or a caller default.
	A
)

// String returns the single letter name of the order.
func (o Order) String() string {
	switch o {
	case C:
		return "C"
	case F:
		return "F"
	case S:
		return "S"
	case A:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether o is one of the defined orders.
func (o Order) Valid() bool {
	return o >= C && o <= A
}

// Dense reports whether o names a dense allocation order (C or F).
func (o Order) Dense() bool {
	return o == C || o == F
}
