package utils

import (
	"github.com/google/uuid"

	"github.com/MKhiriev/go-finance-keeper/models"
)

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUIDv7, falling back to a random v4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// GenerateLocal returns a temporary client-side record identifier.
func (g *UUIDGenerator) GenerateLocal() string {
	return models.LocalIDPrefix + g.Generate()
}
