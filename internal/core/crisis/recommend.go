package crisis

import (
	"fmt"

	"safeharbor/internal/core/contacts"
)

// Lead lines per level; callers match on these verbatim
const (
	LeadImmediate = "IMMEDIATE INTERVENTION REQUIRED"
	LeadHigh      = "HIGH PRIORITY: Urgent professional support needed"
	LeadModerate  = "Schedule a check-in with a mental health professional within 1-2 days"
	LeadLow       = "Consider an optional check-in conversation"
	LeadNone      = "Continue supportive, empathetic communication"
)

// Category-specific additions, appended at most once each
const (
	RecommendIsolation = "Focus on reducing isolation: encourage connection with friends, family, or peer-support groups"
	RecommendSelfHarm  = "Seek professional help that specifically addresses self-harm behaviors"
)

// Category keys the recommender reacts to
const (
	CategoryIsolation = "isolation"
	CategorySelfHarm  = "selfHarm"
)

// Recommender turns a level and its indicators into ordered action lines.
// Contact numbers come from the directory it was built with
type Recommender struct {
	dir contacts.Directory
}

// NewRecommender builds a Recommender over dir
func NewRecommender(dir contacts.Directory) Recommender {
	return Recommender{dir: dir}
}

// GenerateRecommendations uses the default contact directory
func GenerateRecommendations(level Level, xs []Indicator) []string {
	return defaultRecommender().Generate(level, xs)
}

// Generate returns the base lines for level followed by any category additions
func (r Recommender) Generate(level Level, xs []Indicator) []string {
	out := r.base(level)

	var isolation, selfHarm bool
	for _, x := range xs {
		switch x.Details.Category {
		case CategoryIsolation:
			isolation = true
		case CategorySelfHarm:
			selfHarm = true
		}
	}
	if isolation {
		out = append(out, RecommendIsolation)
	}
	if selfHarm {
		out = append(out, RecommendSelfHarm)
	}
	return out
}

func (r Recommender) base(level Level) []string {
	switch level {
	case LevelImmediate:
		return []string{
			LeadImmediate,
			r.withContact(contacts.KeyEmergency, "Contact emergency services immediately if the person is in danger"),
			r.withContact(contacts.KeyLifeline, "Connect the person with a crisis lifeline"),
			"Do not leave the person alone",
			"Remove access to any means of self-harm",
			"Seek an immediate professional mental health evaluation",
		}
	case LevelHigh:
		return []string{
			LeadHigh,
			"Schedule an urgent appointment with a mental health professional",
			r.withContact(contacts.KeyLifeline, "Share the crisis lifeline"),
			"Increase the frequency of check-ins",
			"Create or review a safety plan together",
			"Monitor closely for any escalation in warning signs",
		}
	case LevelModerate:
		return []string{
			LeadModerate,
			"Provide supportive, non-judgmental contact",
			"Encourage healthy coping strategies",
			"Monitor for changes in mood or behavior",
			r.withContact(contacts.KeyLifeline, "Share the crisis lifeline number"),
		}
	case LevelLow:
		return []string{
			LeadLow,
			"Offer emotional support and active listening",
			"Share mental health and peer-support resources",
			"Continue to monitor for changes in mood or behavior",
		}
	default:
		return []string{
			LeadNone,
			"Keep listening without judgment and stay available",
		}
	}
}

// withContact appends "name (how to reach)" when the directory has key
func (r Recommender) withContact(key, line string) string {
	c, ok := r.dir.Lookup(key)
	if !ok {
		return line
	}
	return fmt.Sprintf("%s: %s (%s)", line, c.Name, c.Reach())
}
