// Package trigger describes the events that start a workflow.
package trigger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sourceplane/wfviz/internal/model"
)

// ScheduleTrigger is the trigger whose entries carry cron expressions
const ScheduleTrigger = "schedule"

// DefaultNextRuns is how many upcoming schedule runs Describe lists
const DefaultNextRuns = 1

// Describer summarizes triggers
type Describer struct {
	parser   cron.Parser
	nextRuns int
}

// NewDescriber creates a describer listing up to nextRuns upcoming runs per
// cron expression
func NewDescriber(nextRuns int) *Describer {
	if nextRuns < 0 {
		nextRuns = 0
	}
	return &Describer{
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		nextRuns: nextRuns,
	}
}

// Describe lists the workflow's triggers in declaration order. Schedule
// times are computed in UTC from now.
func Describe(wf *model.Workflow, now time.Time) []model.TriggerDescription {
	return NewDescriber(DefaultNextRuns).Describe(wf, now)
}

// Describe lists the workflow's triggers in declaration order
func (d *Describer) Describe(wf *model.Workflow, now time.Time) []model.TriggerDescription {
	descriptions := make([]model.TriggerDescription, 0)
	if wf == nil {
		return descriptions
	}

	for _, t := range wf.Triggers {
		desc := model.TriggerDescription{Name: t.Name}
		switch {
		case t.Null:
			desc.Details = []string{"disabled (null)"}
		case t.Name == ScheduleTrigger:
			desc.Details, desc.NextRuns = d.describeSchedule(t.Config, now)
		default:
			desc.Details = describeConfig(t.Config)
		}
		descriptions = append(descriptions, desc)
	}
	return descriptions
}

// describeSchedule handles `schedule: [{cron: "..."}]`
func (d *Describer) describeSchedule(config interface{}, now time.Time) ([]string, []string) {
	entries, ok := config.([]interface{})
	if !ok {
		return describeConfig(config), nil
	}

	details := make([]string, 0, len(entries))
	nextRuns := make([]string, 0)
	for _, entry := range entries {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		expr, ok := fields["cron"].(string)
		if !ok {
			continue
		}

		schedule, err := d.parser.Parse(expr)
		if err != nil {
			details = append(details, fmt.Sprintf("cron %q: invalid: %v", expr, err))
			continue
		}
		details = append(details, fmt.Sprintf("cron %q", expr))

		next := now.UTC()
		for i := 0; i < d.nextRuns; i++ {
			next = schedule.Next(next)
			nextRuns = append(nextRuns, next.Format(time.RFC3339))
		}
	}
	return details, nextRuns
}

// describeConfig renders a trigger configuration as "key: value" lines
func describeConfig(config interface{}) []string {
	switch v := config.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []interface{}:
		return []string{formatValue(v)}
	case map[string]interface{}:
		if len(v) == 0 {
			return []string{"configured"}
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details := make([]string, 0, len(keys))
		for _, key := range keys {
			details = append(details, fmt.Sprintf("%s: %s", key, formatValue(v[key])))
		}
		return details
	default:
		return []string{formatValue(v)}
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "~"
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, formatValue(item))
		}
		return strings.Join(items, ", ")
	case map[string]interface{}:
		return strings.Join(describeConfig(val), "; ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
