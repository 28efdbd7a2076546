package boundary

import "errors"

var (
	// ErrEmptyDataset is returned when a dataset has no points; the
	// bounding box of an empty point set is undefined.
	ErrEmptyDataset = errors.New("boundary: empty dataset")

	// ErrLengthMismatch is returned when the label sequence length
	// differs from the point sequence length. A mismatched overlay would
	// silently misrender, so this fails loudly instead.
	ErrLengthMismatch = errors.New("boundary: points and labels length mismatch")

	// ErrDegenerateExtent is returned when the dataset has zero range on
	// an axis. Padding scales with the range, so a zero-range axis
	// collapses the padded box to a line and leaves nothing to sample.
	ErrDegenerateExtent = errors.New("boundary: dataset has zero range on an axis")

	// ErrNonFinite is returned when a coordinate or label is NaN or
	// infinite. Such values have no bounding box and poison every later
	// stage, so they are rejected up front.
	ErrNonFinite = errors.New("boundary: non-finite value in dataset")
)
