package uuid

import (
	guuid "github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid"
)

// Generator UUID generator interface
type Generator interface {
	Generate() (string, error)
}

// NanoIDGenerator UUID implementation using NanoID, used for session IDs
type NanoIDGenerator struct {
	Length int
}

var _ Generator = &NanoIDGenerator{}

// NewNanoIDGenerator create a new `NanoIDGenerator` instance
func NewNanoIDGenerator(length int) *NanoIDGenerator {
	if length < 1 {
		panic("length must be larger than 1")
	}
	return &NanoIDGenerator{Length: length}
}

// Generate generate UUID
func (ns *NanoIDGenerator) Generate() (string, error) {
	return gonanoid.Nanoid(ns.Length)
}

// RandomGenerator RFC 4122 v4 UUIDs
type RandomGenerator struct{}

var _ Generator = RandomGenerator{}

// Generate generate UUID
func (RandomGenerator) Generate() (string, error) {
	id, err := guuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
