package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("revision conflict")
	ErrReferenced    = errors.New("record is referenced")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrValidation    = errors.New("validation failed")
)

// NotFoundError reports a missing record. Key is the id, or the date for weather days.
type NotFoundError struct {
	Entity string
	Key    string
}

func NotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: strconv.FormatInt(id, 10)}
}

func NotFoundKey(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError is returned when an update names a revision that is no longer current.
type ConflictError struct {
	Entity   string
	ID       int64
	Expected int64
	Current  int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: expected revision %d, current is %d", e.Entity, e.ID, e.Expected, e.Current)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ReferencedError lists dependents that block a delete, counted per entity.
type ReferencedError struct {
	Entity     string
	ID         int64
	Dependents map[string]int
}

func (e *ReferencedError) Error() string {
	names := make([]string, 0, len(e.Dependents))
	for name := range e.Dependents {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", e.Dependents[name], name))
	}
	return fmt.Sprintf("%s %d is referenced by %s", e.Entity, e.ID, strings.Join(parts, ", "))
}

func (e *ReferencedError) Is(target error) bool { return target == ErrReferenced }

// ValidationError maps json field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
