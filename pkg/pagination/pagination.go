// Package pagination turns raw page/size query parameters into bounded
// offsets and response metadata.
package pagination

import "strconv"

const defaultSize = 10

type Page struct {
	Page int
	Size int
}

// Parse tolerates missing or garbage parameters: page falls back to the
// first page, size to the default page size.
func Parse(pageStr, sizeStr string) Page {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = defaultSize
	}
	return Page{Page: page, Size: size}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Size
}

func TotalPages(total int64, size int) int64 {
	if size <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
