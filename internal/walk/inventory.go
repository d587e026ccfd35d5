package walk

import "sort"

// Inventory buckets files by exact byte size. It lives for a single
// comparison and is never cached.
type Inventory map[int64][]Entry

// SizeInventory walks folder and buckets every file by size, skipping base
// names listed in ignoreFiles (case-insensitive).
func SizeInventory(folder string, ignoreFiles []string) (Inventory, error) {
	entries, err := Files(folder, Options{IgnoreFiles: ignoreFiles})
	if err != nil {
		return nil, err
	}
	inv := make(Inventory)
	for _, e := range entries {
		size := e.Info.Size()
		inv[size] = append(inv[size], e)
	}
	return inv, nil
}

// Sizes returns the bucket keys in ascending order.
func (inv Inventory) Sizes() []int64 {
	sizes := make([]int64, 0, len(inv))
	for s := range inv {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}

// Len returns the number of files in all buckets.
func (inv Inventory) Len() int {
	n := 0
	for _, b := range inv {
		n += len(b)
	}
	return n
}
