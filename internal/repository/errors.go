// Package repository declares the persistence contracts used by the use cases.
package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")
