// Package memory provides the context store consumed by agent loops: a
// bounded short-term store seeding each loop iteration and a category-bucketed
// long-term store for durable facts. Manager ties both together and supports
// lossless JSON file persistence.
package memory
