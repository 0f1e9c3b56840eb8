package service

const (
	// DefaultPageSize is used when the caller omits or zeroes the limit.
	DefaultPageSize = 20
	// MaxPageSize caps a single listing request.
	MaxPageSize = 100
)

// NormalizePage clamps pagination arguments: limit into
// [1, MaxPageSize] with DefaultPageSize for non-positive input, and a
// non-negative offset.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
