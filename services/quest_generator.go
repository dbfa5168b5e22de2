package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/citizenhero/raindrop/models"
	"github.com/citizenhero/raindrop/utils"
)

const (
	defaultDurationDays = 14
	stepCount           = 5
)

// QuestGenerator builds complete quests from a mission idea and help mode.
// It first attempts SmartInference delegation when configured, then falls
// back to local templates. Generate never fails: the caller always receives
// a well-formed quest.
type QuestGenerator struct {
	inference *SmartInferenceClient
}

func NewQuestGenerator(inference *SmartInferenceClient) *QuestGenerator {
	return &QuestGenerator{inference: inference}
}

// Generate produces a quest for the request. The local path is a pure
// function of its inputs; the delegation path depends on the network, but
// every delegation failure lands on the same local path.
func (g *QuestGenerator) Generate(ctx context.Context, req *models.GenerateQuestRequest) *models.Quest {
	missionIdea := utils.SanitizeMissionIdea(req.MissionIdea)
	mode := models.ParseHelpMode(req.HelpMode)
	who := strings.TrimSpace(req.Who)
	where := strings.TrimSpace(req.Where)
	outcome := strings.TrimSpace(req.Outcome)

	if g.inference.Configured() {
		quest, err := g.inference.GenerateQuest(ctx, InferenceRequest{
			MissionIdea: missionIdea,
			HelpMode:    string(mode),
			Who:         who,
			Where:       where,
			Outcome:     outcome,
		})
		if err == nil {
			// The external service is never trusted to produce a
			// short codename.
			nameSource := missionIdea
			if nameSource == "" {
				nameSource = quest.MissionSummary
			}
			quest.QuestName = BuildOperationName(nameSource, quest.QuestName)
			return quest
		}
		slog.Warn("SmartInference call failed, generating locally",
			slog.String("error", err.Error()))
	}

	if who != "" && where != "" && outcome != "" {
		return buildDetailedQuest(mode, who, where, outcome)
	}

	return buildTemplateQuest(missionIdea, mode)
}

// ClarifyingQuestions returns a short list of questions that help a player
// refine their mission before generating a quest. Nothing is persisted.
func (g *QuestGenerator) ClarifyingQuestions(req *models.ClarifyMissionRequest) []string {
	missionIdea := utils.SanitizeMissionIdea(req.MissionIdea)
	mode := models.ParseHelpMode(req.HelpMode)

	questions := []string{
		"Who is the specific beneficiary of this mission?",
		"What is your timeline for completing this?",
	}

	switch mode {
	case models.HelpModeSupplies:
		questions = append(questions, "What kind of supplies are most needed?")
	case models.HelpModeAwareness:
		questions = append(questions, "Who is your target audience for raising awareness?")
	case models.HelpModeHelpers:
		questions = append(questions, "How many helpers do you think you need?")
	case models.HelpModeOther:
		// No mode-specific question.
	}

	if missionIdea != "" && len(strings.Fields(missionIdea)) < 6 {
		questions = append(questions, "Can you add one more detail about why this matters to you?")
	}

	return questions
}

// orElse substitutes a neutral phrase when the mission idea is empty.
func orElse(missionIdea, fallback string) string {
	if missionIdea == "" {
		return fallback
	}
	return missionIdea
}

// buildDetailedQuest is the personalized path used when the player answered
// all three clarifying questions. It is simpler than the mode templates: one
// summary sentence built from the answers, with the codename taken from the
// first word of who.
func buildDetailedQuest(mode models.HelpMode, who, where, outcome string) *models.Quest {
	firstWord := strings.Fields(who)[0]

	return &models.Quest{
		QuestName:             OperationPrefix + strings.ToUpper(firstWord),
		MissionSummary:        fmt.Sprintf("Help %s by %s in %s.", who, outcome, where),
		Difficulty:            "Easy",
		EstimatedDurationDays: defaultDurationDays,
		HelpMode:              mode,
		Steps: []models.Step{
			{ID: 1, Title: "Find your adult ally",
				Description: "Ask a parent, guardian, or teacher if they can help you start this mission.",
				SGXPReward:  10},
			{ID: 2, Title: "Reach out to your target",
				Description: "With your adult, contact the organisation or people you want to help to learn what they need most.",
				SGXPReward:  15},
			{ID: 3, Title: "Create a call to action",
				Description: "Make a simple flyer or message explaining your mission and what people can contribute.",
				SGXPReward:  20},
			{ID: 4, Title: "Gather support",
				Description: "Share your message with friends, family and neighbours to collect contributions.",
				SGXPReward:  25},
			{ID: 5, Title: "Deliver the impact",
				Description: "Deliver the collected items or support to those you set out to help and thank everyone involved.",
				SGXPReward:  30},
		},
		ReflectionPrompts: []string{
			"How did it feel to work toward this mission?",
			"What challenges did you overcome?",
			"Who helped you along the way?",
		},
		SafetyNotes: []string{
			"Always involve a trusted adult when contacting organisations or meeting new people.",
			"Never share personal information such as your home address or phone number with strangers.",
		},
	}
}

// buildTemplateQuest fills the narrative template selected by help mode.
// Every template shares structure: five steps with rewards 10/15/20/25/30,
// a 14-day duration and Medium difficulty.
func buildTemplateQuest(missionIdea string, mode models.HelpMode) *models.Quest {
	var summary string
	var steps []models.Step

	switch mode {
	case models.HelpModeSupplies:
		summary = fmt.Sprintf(
			"Gather essential supplies to support your mission: %s. "+
				"Over the next two weeks, you'll rally friends, family, and neighbors to collect what's needed.",
			orElse(missionIdea, "your chosen cause"))
		steps = []models.Step{
			{ID: 1, Title: "Find your adult ally",
				Description: "Ask a trusted adult to help plan your supply drive.",
				SGXPReward:  10},
			{ID: 2, Title: "Research what's needed",
				Description: fmt.Sprintf("Identify the types of supplies needed to address %s. Make a list with your adult ally.",
					orElse(missionIdea, "your mission")),
				SGXPReward: 15},
			{ID: 3, Title: "Spread the word",
				Description: "Create flyers or social media posts asking for donations and explaining why they matter.",
				SGXPReward:  20},
			{ID: 4, Title: "Collect and organize supplies",
				Description: "Gather the supplies from donors and sort them by type.",
				SGXPReward:  25},
			{ID: 5, Title: "Deliver and celebrate",
				Description: fmt.Sprintf("Deliver the collected supplies to those affected by %s and thank everyone who helped.",
					orElse(missionIdea, "your mission")),
				SGXPReward: 30},
		}

	case models.HelpModeAwareness:
		summary = fmt.Sprintf(
			"Raise awareness about %s. "+
				"Over the next two weeks, you'll learn, create messages, and share them widely.",
			orElse(missionIdea, "an issue you care about"))
		steps = []models.Step{
			{ID: 1, Title: "Learn about the issue",
				Description: fmt.Sprintf("Read articles or watch videos to understand why %s matters.",
					orElse(missionIdea, "this issue")),
				SGXPReward: 10},
			{ID: 2, Title: "Plan your message",
				Description: "With your adult ally, decide the key facts and stories you want to share.",
				SGXPReward:  15},
			{ID: 3, Title: "Create awareness materials",
				Description: "Design posters, social media posts, or presentations to spread the word.",
				SGXPReward:  20},
			{ID: 4, Title: "Share your message",
				Description: "Present your materials at school, community centers, or online.",
				SGXPReward:  25},
			{ID: 5, Title: "Gather feedback",
				Description: "Talk to peers about what they learned and how they feel about the mission.",
				SGXPReward:  30},
		}

	case models.HelpModeHelpers:
		summary = fmt.Sprintf(
			"Organize helpers to tackle %s. "+
				"Over the next two weeks, you'll recruit volunteers and coordinate their efforts.",
			orElse(missionIdea, "your mission"))
		steps = []models.Step{
			{ID: 1, Title: "Identify tasks",
				Description: fmt.Sprintf("List out what needs to be done to address %s.",
					orElse(missionIdea, "your mission")),
				SGXPReward: 10},
			{ID: 2, Title: "Recruit helpers",
				Description: "Ask friends, classmates, and community members to join your mission.",
				SGXPReward:  15},
			{ID: 3, Title: "Plan the work",
				Description: "With your team and adult ally, schedule when and where the tasks will happen.",
				SGXPReward:  20},
			{ID: 4, Title: "Take action together",
				Description: "Lead your team as you carry out the tasks to make a difference.",
				SGXPReward:  25},
			{ID: 5, Title: "Reflect and celebrate",
				Description: "Thank your helpers and discuss what you accomplished together.",
				SGXPReward:  30},
		}

	case models.HelpModeOther:
		summary = fmt.Sprintf(
			"Make a difference by acting on %s. "+
				"Over the next two weeks you'll create your own mission plan.",
			orElse(missionIdea, "your mission idea"))
		steps = []models.Step{
			{ID: 1, Title: "Define your goal",
				Description: fmt.Sprintf("With an adult ally, clarify what success looks like for %s.",
					orElse(missionIdea, "this mission")),
				SGXPReward: 10},
			{ID: 2, Title: "Plan your approach",
				Description: "Decide whether you need supplies, awareness, or helpers and plan accordingly.",
				SGXPReward:  15},
			{ID: 3, Title: "Execute your plan",
				Description: "Follow through with your actions, adjusting as needed.",
				SGXPReward:  20},
			{ID: 4, Title: "Document your journey",
				Description: "Take notes or photos to capture your experience.",
				SGXPReward:  25},
			{ID: 5, Title: "Share your impact",
				Description: fmt.Sprintf("Tell others what you learned and how they can help with %s.",
					orElse(missionIdea, "this mission")),
				SGXPReward: 30},
		}
	}

	return &models.Quest{
		QuestName:             BuildOperationName(missionIdea, ""),
		MissionSummary:        summary,
		Difficulty:            "Medium",
		EstimatedDurationDays: defaultDurationDays,
		HelpMode:              mode,
		Steps:                 steps,
		ReflectionPrompts: []string{
			fmt.Sprintf("What surprised you while working on %s?", orElse(missionIdea, "this mission")),
			"How did teamwork or community support influence your mission?",
			"What would you do differently next time?",
		},
		SafetyNotes: []string{
			"Always involve a trusted adult when planning and carrying out your mission.",
			"Respect privacy and seek permission when taking photos or sharing stories.",
		},
	}
}
