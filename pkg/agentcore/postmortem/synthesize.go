// Package postmortem assembles the structural shape of a post-mortem
// report from a caller-identified incident's failure events: a
// chronological timeline, the dominant root cause across the events'
// classifications, and the distinct contributing failure categories. The
// narrative prose a human-facing report would wrap around this structure
// is produced by an external templating collaborator (spec.md §1's stated
// non-goal) — this package only carries the structural shape and the
// evidence it is built from, grounded on the same dotted-evidence shape the
// classification engine (this repository's sibling analytical component)
// already returns per event.
package postmortem

import (
	"fmt"
	"sort"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/classify"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// Synthesize builds a PostMortemReport from incidentSpanIDs and the failure
// events that make up the incident, classifying each event with engine to
// derive root cause, contributing factors, and a per-event timeline detail.
func Synthesize(incidentSpanIDs []string, events []domain.FailureEvent, engine *classify.Engine) (domain.PostMortemReport, []domain.FailureClassification) {
	timeline := make([]domain.PostMortemTimelineEntry, 0, len(events))
	classifications := make([]domain.FailureClassification, 0, len(events))
	causeCounts := make(map[domain.Cause]int)
	categorySeen := make(map[domain.FailureCategory]bool)
	var contributingFactors []string
	recommendationSeen := make(map[string]bool)
	var recommendations []string

	for _, event := range events {
		fields, err := toFields(event)
		var classification domain.FailureClassification
		if err == nil {
			classification = engine.Classify(fields)
		} else {
			classification = domain.FailureClassification{Category: domain.CategoryUnknown, Severity: domain.SeverityInformational, Cause: domain.CauseUnknown}
		}
		classification.SpanID = event.SpanID
		classifications = append(classifications, classification)

		causeCounts[classification.Cause]++
		if !categorySeen[classification.Category] {
			categorySeen[classification.Category] = true
			contributingFactors = append(contributingFactors, string(classification.Category))
		}
		if classification.Recommendation != "" && !recommendationSeen[classification.Recommendation] {
			recommendationSeen[classification.Recommendation] = true
			recommendations = append(recommendations, classification.Recommendation)
		}

		timeline = append(timeline, domain.PostMortemTimelineEntry{
			Timestamp: event.Latency.StartTime,
			SpanID:    event.SpanID,
			Detail:    fmt.Sprintf("%s: %s", classification.Category, event.Error.Message),
		})
	}

	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Timestamp.Before(timeline[j].Timestamp) })

	rootCause := dominantCause(causeCounts)
	recommendation := ""
	if len(recommendations) > 0 {
		recommendation = recommendations[0]
	}

	report := domain.PostMortemReport{
		IncidentSpanIDs:     incidentSpanIDs,
		Summary:             fmt.Sprintf("%d failure event(s) across %d span(s); dominant root cause: %s", len(events), len(incidentSpanIDs), rootCause),
		RootCause:           string(rootCause),
		ContributingFactors: contributingFactors,
		Timeline:            timeline,
		Recommendation:      recommendation,
	}
	return report, classifications
}

// dominantCause returns the most frequently classified cause, ties broken
// by the domain's declared enum order (CausePolicy, CauseUpstream,
// CauseClient, CauseInfra, CauseUnknown) for determinism.
func dominantCause(counts map[domain.Cause]int) domain.Cause {
	order := []domain.Cause{domain.CausePolicy, domain.CauseUpstream, domain.CauseClient, domain.CauseInfra, domain.CauseUnknown}
	best := domain.CauseUnknown
	bestCount := -1
	for _, cause := range order {
		if counts[cause] > bestCount {
			bestCount = counts[cause]
			best = cause
		}
	}
	return best
}
