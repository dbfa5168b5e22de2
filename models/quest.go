package models

import (
	"time"
)

// HelpMode is the user's chosen category of contribution. It is a closed set:
// anything outside the three named modes normalizes to HelpModeOther.
type HelpMode string

const (
	HelpModeSupplies  HelpMode = "supplies"
	HelpModeAwareness HelpMode = "awareness"
	HelpModeHelpers   HelpMode = "helpers"
	HelpModeOther     HelpMode = "other"
)

// ParseHelpMode normalizes a raw help_mode string. An absent value defaults
// to supplies, matching the behavior clients already depend on; unknown
// values map to HelpModeOther.
func ParseHelpMode(s string) HelpMode {
	switch s {
	case "":
		return HelpModeSupplies
	case string(HelpModeSupplies):
		return HelpModeSupplies
	case string(HelpModeAwareness):
		return HelpModeAwareness
	case string(HelpModeHelpers):
		return HelpModeHelpers
	default:
		return HelpModeOther
	}
}

// Quest is a generated operation: a codename, a narrative summary and five
// actionable steps with escalating point rewards.
type Quest struct {
	ID                    int64     `json:"id"`
	SessionID             string    `json:"session_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	QuestName             string    `json:"quest_name"`
	MissionSummary        string    `json:"mission_summary"`
	Difficulty            string    `json:"difficulty"`
	EstimatedDurationDays int       `json:"estimated_duration_days"`
	HelpMode              HelpMode  `json:"help_mode"`
	Steps                 []Step    `json:"steps"`
	ReflectionPrompts     []string  `json:"reflection_prompts"`
	SafetyNotes           []string  `json:"safety_notes"`
}

// Step is owned by exactly one quest; IDs are 1-based and sequential within
// the quest.
type Step struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SGXPReward  int    `json:"sgxp_reward"`
}

// GenerateQuestRequest is the body of POST /generate-quest. Who, Where and
// Outcome are the optional clarifying details; when all three are present
// they select the personalized generation path.
type GenerateQuestRequest struct {
	MissionIdea string `json:"mission_idea"`
	HelpMode    string `json:"help_mode"`
	ClientID    string `json:"client_id"`
	Who         string `json:"who"`
	Where       string `json:"where"`
	Outcome     string `json:"outcome"`
}

// ClarifyMissionRequest is the body of POST /clarify-mission.
type ClarifyMissionRequest struct {
	MissionIdea string `json:"mission_idea"`
	HelpMode    string `json:"help_mode"`
}
