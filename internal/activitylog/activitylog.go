package activitylog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// TimelineStages are the stages that own an activity log, in workflow order.
var TimelineStages = []enums.PartsOrderStage{
	enums.PartsOrderStageOrderReview,
	enums.PartsOrderStageOrderFulfillment,
	enums.PartsOrderStageOrderReceived,
}

var stageTypes = map[enums.PartsOrderStage][]enums.ActivityLogType{
	enums.PartsOrderStageOrderReview: {
		enums.ActivityLogTypeSubmitted,
		enums.ActivityLogTypeRejected,
		enums.ActivityLogTypeResubmitted,
		enums.ActivityLogTypeApproved,
	},
	enums.PartsOrderStageOrderFulfillment: {
		enums.ActivityLogTypeShipped,
		enums.ActivityLogTypeUnshipped,
	},
	enums.PartsOrderStageOrderReceived: {
		enums.ActivityLogTypeReceived,
		enums.ActivityLogTypeUnreceived,
	},
}

// StageFor returns the stage whose log records items of type t.
func StageFor(t enums.ActivityLogType) (enums.PartsOrderStage, bool) {
	for stage, types := range stageTypes {
		for _, candidate := range types {
			if candidate == t {
				return stage, true
			}
		}
	}
	return "", false
}

// TypesFor returns the log types narrated for a stage, in display order.
func TypesFor(stage enums.PartsOrderStage) []enums.ActivityLogType {
	types := stageTypes[stage]
	out := make([]enums.ActivityLogType, len(types))
	copy(out, types)
	return out
}

// NewItem builds an unsaved log item. Blank comments are dropped.
func NewItem(partsOrderID uuid.UUID, stage enums.PartsOrderStage, t enums.ActivityLogType, comment *string, personID *uuid.UUID, at time.Time) models.ActivityLogItem {
	item := models.ActivityLogItem{
		ID:           uuid.New(),
		PartsOrderID: partsOrderID,
		Stage:        stage,
		Type:         t,
		CreatedAt:    at.UTC(),
	}
	if comment != nil {
		if trimmed := strings.TrimSpace(*comment); trimmed != "" {
			item.Comment = &trimmed
		}
	}
	if personID != nil {
		id := *personID
		item.PersonID = &id
	}
	return item
}

// Log is the activity log of one parts order partitioned by stage. Each
// partition is ordered by creation time ascending.
type Log struct {
	stages map[enums.PartsOrderStage][]models.ActivityLogItem
}

// FromItems partitions items by their stage. Items with an unknown stage are
// placed by their type.
func FromItems(items []models.ActivityLogItem) Log {
	log := Log{stages: make(map[enums.PartsOrderStage][]models.ActivityLogItem, len(TimelineStages))}
	for _, item := range items {
		stage := item.Stage
		if _, ok := stageTypes[stage]; !ok {
			inferred, ok := StageFor(item.Type)
			if !ok {
				continue
			}
			stage = inferred
		}
		log.stages[stage] = append(log.stages[stage], item)
	}
	for stage := range log.stages {
		entries := log.stages[stage]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})
	}
	return log
}

// Stage returns a copy of the items recorded for stage.
func (l Log) Stage(stage enums.PartsOrderStage) []models.ActivityLogItem {
	entries := l.stages[stage]
	out := make([]models.ActivityLogItem, len(entries))
	copy(out, entries)
	return out
}

// LatestOfType returns the most recent item of type t in the stage's log.
func (l Log) LatestOfType(stage enums.PartsOrderStage, t enums.ActivityLogType) *models.ActivityLogItem {
	entries := l.stages[stage]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Type == t {
			item := entries[i]
			return &item
		}
	}
	return nil
}

// Len returns the number of items across all stages.
func (l Log) Len() int {
	total := 0
	for _, entries := range l.stages {
		total += len(entries)
	}
	return total
}

// IsEmpty reports whether no item was recorded, as with orders migrated from older data.
func (l Log) IsEmpty() bool {
	return l.Len() == 0
}
