package studyplan

import (
	"fmt"

	"readiness-service/internal/priority"
)

// Fixed guidance templates keyed by bucket and activity. Deterministic text,
// no generation involved.

func whyText(bucket, activity string, rec priority.Record) string {
	switch bucket {
	case BucketWeak:
		switch activity {
		case "learn":
			return fmt.Sprintf("Mastery on %s is %.0f%%. Rebuild the fundamentals before attempting questions.", rec.TopicTag, rec.Components.MasteryPercent)
		case "case":
			return fmt.Sprintf("Seeing %s applied in a decided case makes the principle concrete.", rec.TopicTag)
		default:
			return fmt.Sprintf("A scored attempt shows whether %s is improving.", rec.TopicTag)
		}
	case BucketStale:
		switch activity {
		case "learn":
			return fmt.Sprintf("Last practiced %d days ago. A quick re-read keeps %s from fading.", rec.Components.DaysSince, rec.TopicTag)
		case "case":
			return fmt.Sprintf("Revisiting the leading authority refreshes %s efficiently.", rec.TopicTag)
		default:
			return fmt.Sprintf("One retrieval attempt restores recall on %s faster than re-reading.", rec.TopicTag)
		}
	default:
		switch activity {
		case "learn":
			return fmt.Sprintf("Mastery on %s is %.0f%%. Target the gaps, not the whole topic.", rec.TopicTag, rec.Components.MasteryPercent)
		case "case":
			return fmt.Sprintf("Case analysis is where partial understanding of %s shows. Work through the reasoning.", rec.TopicTag)
		default:
			return fmt.Sprintf("Timed practice on %s converts familiarity into exam marks.", rec.TopicTag)
		}
	}
}

func focusText(bucket, activity string) string {
	switch bucket {
	case BucketWeak:
		switch activity {
		case "learn":
			return "Read for definitions and elements. Note every term you cannot define from memory."
		case "case":
			return "Identify the legal issue the court addressed and the rule it applied."
		default:
			return "Attempt without notes first, then fill gaps from the material."
		}
	case BucketStale:
		switch activity {
		case "learn":
			return "Skim headings and summaries. Slow down only where recall fails."
		case "case":
			return "Recite the holding from memory before re-reading the judgment."
		default:
			return "Answer under time pressure to test whether recall survives."
		}
	default:
		switch activity {
		case "learn":
			return "Focus on exceptions and edge cases rather than the basic rule."
		case "case":
			return "Trace how the court weighed competing principles."
		default:
			return "Structure the answer fully: issue, rule, application, conclusion."
		}
	}
}

func successText(bucket, activity string) string {
	switch bucket {
	case BucketWeak:
		switch activity {
		case "learn":
			return "You can state the elements of the rule without looking."
		case "case":
			return "You can explain the outcome and why in two sentences."
		default:
			return "You scored above half marks on the attempt."
		}
	case BucketStale:
		switch activity {
		case "learn":
			return "Nothing in the summary surprised you."
		case "case":
			return "You recalled the holding before re-reading."
		default:
			return "Your score matched or beat your previous attempt."
		}
	default:
		switch activity {
		case "learn":
			return "You can distinguish the rule from its nearest exception."
		case "case":
			return "You can argue both sides of the dispute."
		default:
			return "Every criterion of the model answer appears in yours."
		}
	}
}
