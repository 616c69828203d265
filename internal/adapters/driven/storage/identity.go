// Package storage holds helpers shared by the BrdStore adapters.
package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

// AssignIDs fills every empty identifier in doc with a new UUID and
// stamps timestamps. List order is left untouched.
func AssignIDs(doc *domain.BrdDocument, now time.Time) {
	if doc.ID == "" {
		doc.ID = newID()
	}
	if doc.Source.ID == "" {
		doc.Source.ID = newID()
	}
	if doc.Source.UploadedAt.IsZero() {
		doc.Source.UploadedAt = now
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	for i := range doc.Requirements {
		if doc.Requirements[i].ID == "" {
			doc.Requirements[i].ID = newID()
		}
	}
	for i := range doc.Decisions {
		if doc.Decisions[i].ID == "" {
			doc.Decisions[i].ID = newID()
		}
	}
	for i := range doc.Stakeholders {
		if doc.Stakeholders[i].ID == "" {
			doc.Stakeholders[i].ID = newID()
		}
	}
	for i := range doc.Risks {
		if doc.Risks[i].ID == "" {
			doc.Risks[i].ID = newID()
		}
	}
	for i := range doc.Timeline {
		if doc.Timeline[i].ID == "" {
			doc.Timeline[i].ID = newID()
		}
	}
	for i := range doc.RTM {
		if doc.RTM[i].ID == "" {
			doc.RTM[i].ID = newID()
		}
	}
}

func newID() string {
	return uuid.New().String()
}
