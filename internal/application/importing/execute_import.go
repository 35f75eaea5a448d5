package importing

import (
	"context"
	"fmt"
	"log"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

type ExecuteImportInput struct {
	Actor     domain.Actor
	SessionID string
	// Decisions override previously stored ones per row; rows without a
	// decision on a reported duplicate default to skip.
	Decisions map[string]string
}

type ExecuteImportOutput struct {
	SessionID       string         `json:"session_id"`
	Status          domain.Status  `json:"status"`
	Result          domain.Summary `json:"result"`
	InsertedLeadIDs []int64        `json:"inserted_lead_ids"`
	UpdatedLeadIDs  []int64        `json:"updated_lead_ids"`
}

type ExecuteImport interface {
	Execute(ctx context.Context, in ExecuteImportInput) (ExecuteImportOutput, error)
}

type executeImport struct {
	sessions domain.SessionRepository
	leads    domain.LeadRepository
}

func NewExecuteImport(sessions domain.SessionRepository, leads domain.LeadRepository) ExecuteImport {
	return &executeImport{sessions: sessions, leads: leads}
}

// Execute applies the per-row decisions and commits the batch. Row-level
// insert/update failures are counted and skipped over, never aborting the
// batch; only a failure to persist the session itself fails the import.
func (uc *executeImport) Execute(ctx context.Context, in ExecuteImportInput) (ExecuteImportOutput, error) {
	overrides, err := ParseDecisions(in.Decisions)
	if err != nil {
		return ExecuteImportOutput{}, err
	}

	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return ExecuteImportOutput{}, err
	}
	if session.Status != domain.StatusReady {
		return ExecuteImportOutput{}, fmt.Errorf("%w: execute requires the ready phase, session is %s", domain.ErrWrongPhase, session.Status)
	}

	decisions := mergeDecisions(session.Decisions, overrides)
	summary, insertedIDs, updatedIDs := uc.commitRows(ctx, session, in.Actor, decisions)

	if err := session.Complete(summary, insertedIDs, updatedIDs); err != nil {
		return ExecuteImportOutput{}, err
	}
	if err := uc.sessions.Update(ctx, session); err != nil {
		session.Fail(err.Error())
		if persistErr := uc.sessions.Update(ctx, session); persistErr != nil {
			log.Printf("persist failed session %s: %v", session.ID, persistErr)
		}
		return ExecuteImportOutput{}, fmt.Errorf("%w: %v", ErrExecuteImport, err)
	}

	return ExecuteImportOutput{
		SessionID:       session.ID,
		Status:          session.Status,
		Result:          summary,
		InsertedLeadIDs: insertedIDs,
		UpdatedLeadIDs:  updatedIDs,
	}, nil
}

func (uc *executeImport) commitRows(ctx context.Context, session *domain.Session, actor domain.Actor, decisions map[int]domain.Decision) (domain.Summary, []int64, []int64) {
	skip := make(map[int]bool)
	// In-file clusters keep only their first row, regardless of decisions.
	for _, group := range session.Duplicates.InFile {
		for _, rowNum := range group.Rows[1:] {
			skip[rowNum] = true
		}
	}

	// Matched rows consult their decision; unspecified means skip.
	updateTargets := make(map[int]int64)
	matched := append(append([]domain.ExistingMatch{}, session.Duplicates.Existing...), session.Duplicates.Smart...)
	for _, match := range matched {
		if skip[match.ImportRow] {
			continue
		}
		switch decisions[match.ImportRow] {
		case domain.DecisionUpdate:
			updateTargets[match.ImportRow] = match.ExistingLead.ID
		case domain.DecisionInsert:
			// fall through to plain insertion
		default:
			skip[match.ImportRow] = true
		}
	}

	summary := domain.Summary{TotalRows: session.TotalRows}
	insertedIDs := make([]int64, 0)
	updatedIDs := make([]int64, 0)

	for _, row := range session.ValidLeads {
		if skip[row.RowNum] {
			summary.Skipped++
			continue
		}
		if targetID, ok := updateTargets[row.RowNum]; ok {
			if err := uc.leads.UpdateContact(ctx, targetID, row.FullName, row.Email, row.Phone); err != nil {
				log.Printf("update lead %d from row %d: %v", targetID, row.RowNum, err)
				summary.Errors++
				continue
			}
			summary.Updated++
			updatedIDs = append(updatedIDs, targetID)
			continue
		}
		id, err := uc.leads.Insert(ctx, uc.newLead(session, actor, row))
		if err != nil {
			log.Printf("insert lead from row %d: %v", row.RowNum, err)
			summary.Errors++
			continue
		}
		summary.Inserted++
		insertedIDs = append(insertedIDs, id)
	}

	return summary, insertedIDs, updatedIDs
}

func (uc *executeImport) newLead(session *domain.Session, actor domain.Actor, row domain.NormalizedLead) lead.Lead {
	l := lead.Lead{
		FullName:  row.FullName,
		Email:     row.Email,
		Phone:     row.Phone,
		Source:    row.Source,
		Status:    lead.StatusNew,
		CreatedBy: session.UserID,
	}
	// Sales imports assign to the importer; manager/admin imports stay
	// unassigned for later distribution.
	if actor.Sales {
		l.AssignedTo = actor.UserID
	}
	return l
}

func mergeDecisions(stored, overrides map[int]domain.Decision) map[int]domain.Decision {
	merged := make(map[int]domain.Decision, len(stored)+len(overrides))
	for rowNum, decision := range stored {
		merged[rowNum] = decision
	}
	for rowNum, decision := range overrides {
		merged[rowNum] = decision
	}
	return merged
}
