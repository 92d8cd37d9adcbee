package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera um identificador curto aceito em ids de job do BigQuery
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 12)
}
