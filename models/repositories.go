package models

import (
	"github.com/citizenhero/raindrop/database/repositories"
)

// Repositories groups all repository interfaces for easy injection
type Repositories struct {
	Quest repositories.QuestRepository
}

// NewRepositories creates a new repositories group from individual repositories
func NewRepositories(quest repositories.QuestRepository) *Repositories {
	return &Repositories{
		Quest: quest,
	}
}
