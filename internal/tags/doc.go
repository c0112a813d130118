// Package tags extracts embedded audio metadata into catalog records.
package tags
