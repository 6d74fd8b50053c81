// Package ordering holds the pure list operations behind digest block ordering.
// Every function returns a new slice and never mutates its input.
package ordering

import "fmt"

// Reorder removes the element at from and reinserts it at to. Elements in
// between shift by one place. Both indices must satisfy 0 <= i < len(items);
// use CheckMove before calling with untrusted input.
func Reorder[T any](items []T, from, to int) []T {
	result := make([]T, len(items))
	copy(result, items)

	moved := result[from]
	if from < to {
		copy(result[from:to], result[from+1:to+1])
	} else if from > to {
		copy(result[to+1:from+1], result[to:from])
	}
	result[to] = moved
	return result
}

// Insert places item at position, shifting the elements at or after it one place later.
// position must satisfy 0 <= position <= len(items).
func Insert[T any](items []T, position int, item T) []T {
	result := make([]T, 0, len(items)+1)
	result = append(result, items[:position]...)
	result = append(result, item)
	result = append(result, items[position:]...)
	return result
}

// Remove drops the element at index, closing the gap.
func Remove[T any](items []T, index int) []T {
	result := make([]T, 0, len(items)-1)
	result = append(result, items[:index]...)
	result = append(result, items[index+1:]...)
	return result
}

// IndexOf returns the index of the first element matching pred, or -1.
func IndexOf[T any](items []T, pred func(T) bool) int {
	for i, item := range items {
		if pred(item) {
			return i
		}
	}
	return -1
}

// CheckMove validates reorder indices for a list of length n.
func CheckMove(n, from, to int) error {
	if from < 0 || from >= n {
		return fmt.Errorf("source index %d out of range [0, %d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("destination index %d out of range [0, %d)", to, n)
	}
	return nil
}

// CheckInsert validates an insertion position for a list of length n.
func CheckInsert(n, position int) error {
	if position < 0 || position > n {
		return fmt.Errorf("position %d out of range [0, %d]", position, n)
	}
	return nil
}

// IsDense reports whether orders is a permutation of 0..len(orders)-1.
func IsDense(orders []int) bool {
	seen := make([]bool, len(orders))
	for _, o := range orders {
		if o < 0 || o >= len(orders) || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}
