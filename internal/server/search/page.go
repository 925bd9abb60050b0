package search

// NormalizePage maps page numbers below 1 to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages is ceil(count/size). A filter without matches has zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Offset is the number of items preceding page.
func Offset(page, size int) int {
	return (NormalizePage(page) - 1) * size
}
