package model

import "time"

// ProductionLevel describes the scale of the production company.
type ProductionLevel string

// Production levels.
const (
	LevelIndie      ProductionLevel = "Indie"
	LevelCommercial ProductionLevel = "Commercial"
	LevelStudio     ProductionLevel = "Studio"
	LevelUnion      ProductionLevel = "Union"
)

// ProductionLevels lists every level.
var ProductionLevels = []ProductionLevel{LevelIndie, LevelCommercial, LevelStudio, LevelUnion}

// Valid reports whether l is a known level.
func (l ProductionLevel) Valid() bool {
	for _, known := range ProductionLevels {
		if l == known {
			return true
		}
	}
	return false
}

// CompanyConfig is the singleton onboarding profile.
type CompanyConfig struct {
	Name        string          `json:"name"`
	Level       ProductionLevel `json:"level"`
	FoundedDate time.Time       `json:"founded_date"`
}
